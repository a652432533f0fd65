package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"qrbill/pkg/bill"
	"qrbill/pkg/charset"
	"qrbill/pkg/payments"
	"qrbill/pkg/qrtext"
	"qrbill/pkg/validation"
)

var version = "0.1.0"

// errInvalid signals a bill with validation errors. The messages have
// already been printed.
var errInvalid = errors.New("bill data is invalid")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qrbill",
		Short: "Validate, encode and decode Swiss QR bills",
		Long: `qrbill checks Swiss QR bill data and converts it to and from the text
embedded in the QR code.

Bill files are YAML, or JSON when the file name ends in .json.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(referenceCmd())
	return rootCmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a bill file and print the findings",
		Long: `Validate a bill file. Warnings and errors are printed one per line; the
command fails if there is at least one error.

Example:
  qrbill validate bill.yaml
  qrbill validate --charset extended_latin bill.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBill(cmd, args[0])
			if err != nil {
				return err
			}

			result := validation.Validate(b)
			printMessages(cmd.OutOrStdout(), result)
			if result.HasErrors() {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().String("charset", "", "character set: latin1_subset, extended_latin or full_unicode (overrides the file)")
	return cmd
}

func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode FILE",
		Short: "Validate a bill file and print its QR code text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBill(cmd, args[0])
			if err != nil {
				return err
			}
			if crlf, _ := cmd.Flags().GetBool("crlf"); crlf {
				b.Separator = bill.SeparatorCRLF
			}

			text, err := qrtext.EncodeValidated(b)
			if err != nil {
				var verr *validation.ValidationError
				if errors.As(err, &verr) {
					printMessages(cmd.ErrOrStderr(), verr.Result)
					return errInvalid
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().Bool("crlf", false, "separate lines with CR LF instead of LF")
	cmd.Flags().String("charset", "", "character set: latin1_subset, extended_latin or full_unicode (overrides the file)")
	return cmd
}

type decodeOutput struct {
	Bill     billFile        `yaml:"bill"`
	Valid    *bool           `yaml:"valid,omitempty"`
	Messages []messageOutput `yaml:"messages,omitempty"`
}

type messageOutput struct {
	Type        string   `yaml:"type"`
	Field       string   `yaml:"field"`
	Key         string   `yaml:"key"`
	Parameters  []string `yaml:"parameters,omitempty"`
	Description string   `yaml:"description"`
}

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode FILE|-",
		Short: "Decode QR code text and print the bill as YAML",
		Long: `Decode QR code text read from FILE, or from standard input when FILE is "-".

Example:
  qrbill decode qr.txt
  pbpaste | qrbill decode --revalidate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			var opts []qrtext.DecodeOption
			if lenient, _ := cmd.Flags().GetBool("allow-invalid-amount"); lenient {
				opts = append(opts, qrtext.AllowInvalidAmount())
			}
			b, err := qrtext.Decode(string(data), opts...)
			if err != nil {
				var derr *qrtext.DecodeError
				if errors.As(err, &derr) {
					printMessages(cmd.ErrOrStderr(), derr.Result())
					return errInvalid
				}
				return err
			}

			out := decodeOutput{Bill: fromBill(b)}
			if revalidate, _ := cmd.Flags().GetBool("revalidate"); revalidate {
				result := validation.Validate(b)
				valid := result.IsValid()
				out.Valid = &valid
				for _, m := range result.Messages {
					out.Messages = append(out.Messages, messageOutput{
						Type:        m.Type.String(),
						Field:       m.Field,
						Key:         m.Key,
						Parameters:  m.Parameters,
						Description: m.Describe(),
					})
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("write yaml: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().Bool("revalidate", false, "validate the decoded bill and include the findings")
	cmd.Flags().Bool("allow-invalid-amount", false, "leave an unparsable amount empty instead of failing")
	return cmd
}

func referenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Create and format payment references",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "qr RAW",
		Short: "Create a QR reference (zero padded, with check digit) from up to 26 digits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := payments.CreateQRReference(args[0])
			if err != nil {
				return fmt.Errorf("create QR reference: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "iso RAW",
		Aliases: []string{"iso11649", "scor"},
		Short:   "Create an ISO 11649 creditor reference from up to 21 letters and digits",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := payments.CreateISO11649Reference(args[0])
			if err != nil {
				return fmt.Errorf("create creditor reference: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "format TYPE REFERENCE",
		Short: "Format a reference for display (TYPE is QRR, SCOR or NON)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), payments.FormatReference(strings.ToUpper(args[0]), args[1]))
			return nil
		},
	})

	return cmd
}

// loadBill reads a bill file and applies the --charset flag.
func loadBill(cmd *cobra.Command, name string) (*bill.Bill, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return nil, err
	}
	b, err := parseBillFile(name, data)
	if err != nil {
		return nil, err
	}
	if name, _ := cmd.Flags().GetString("charset"); name != "" {
		cs, err := charset.ParseCharacterSet(name)
		if err != nil {
			return nil, err
		}
		b.CharacterSet = cs
	}
	return b, nil
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func printMessages(w io.Writer, result *validation.Result) {
	for _, m := range result.Messages {
		fmt.Fprintf(w, "%-7s %-22s %s: %s\n", m.Type, m.Field, m.Key, m.Describe())
	}
	fmt.Fprintln(w, result.Description())
}
