package main

import (
	"fmt"

	"github.com/Edisonlex/lubri/internal/cli"
	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/ecuador"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check Ecuadorian identifiers",
		Long:  `Check cédulas, RUCs and phone numbers the way catalog imports do.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "cedula <number>",
		Short: "Validate a cédula",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := ecuador.ValidateCedula(args[0]); err != nil {
				return common.NewUserError(cli.FormatError("invalid cédula "+args[0]), err)
			}
			fmt.Println(cli.FormatSuccess("Valid cédula")) //nolint:forbidigo // User-facing output
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ruc <number>",
		Short: "Validate a RUC",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			kind, err := ecuador.ValidateRUC(args[0])
			if err != nil {
				return common.NewUserError(cli.FormatError("invalid RUC "+args[0]), err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Valid RUC (%s)", kind))) //nolint:forbidigo // User-facing output
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "phone <number>",
		Short: "Validate and normalize a phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			kind, err := ecuador.ValidatePhone(args[0])
			if err != nil {
				return common.NewUserError(cli.FormatError("invalid phone "+args[0]), err)
			}
			e164, err := ecuador.NormalizePhone(args[0])
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Valid %s number %s", kind, e164))) //nolint:forbidigo // User-facing output
			return nil
		},
	})

	return cmd
}
