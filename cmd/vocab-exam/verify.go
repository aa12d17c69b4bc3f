package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vocab-exam/internal/quiz"
)

var (
	verifyFile string
	verifyCode string
)

var errCodeMismatch = errors.New("verification code does not match the payload")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a verification code against a saved result payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(verifyFile)
		if err != nil {
			return err
		}
		var file resultFile
		if err := json.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("decode %s: %w", verifyFile, err)
		}

		code := file.Code
		if cmd.Flags().Changed("code") {
			code = verifyCode
		}
		if strings.TrimSpace(code) == "" {
			return errors.New("no code to check: pass --code")
		}

		verifier := quiz.NewVerifier(nil)
		if !verifier.Verify(file.Payload, code) {
			return fmt.Errorf("%w (expected %s)", errCodeMismatch, verifier.Code(file.Payload))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK %s\n", strings.ToUpper(strings.TrimSpace(code)))
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyFile, "file", "", "payload file written by test --payload-out")
	verifyCmd.Flags().StringVar(&verifyCode, "code", "", "code to check instead of the one in the file")
	_ = verifyCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(verifyCmd)
}
