package main

import (
	"errors"

	"github.com/spf13/cobra"

	"taxiservice/config"
	"taxiservice/pkg/forms"
	"taxiservice/service"
)

var superuser struct {
	username      string
	email         string
	password      string
	licenseNumber string
}

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a driver account with admin access",
	Long: `Create a driver account with admin access.

Example:
  taxiservice createsuperuser --username admin --email admin@example.com --password 's3cretpass'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reuse the admin form rules for the username and email.
		form := forms.DriverAdminForm{
			Username:      superuser.username,
			Email:         superuser.email,
			LicenseNumber: superuser.licenseNumber,
		}
		if form.LicenseNumber == "" {
			// optional for superusers
			form.LicenseNumber = "-"
		}
		if errs := form.Validate(); errs != nil {
			for field, msg := range errs {
				cmd.PrintErrf("%s: %s\n", field, msg)
			}
			return errors.New("invalid superuser details")
		}
		if len(superuser.password) < 8 {
			return errors.New("password must contain at least 8 characters")
		}

		cfg := config.Load()
		log := newLogger(cfg)
		defer func() { _ = log.Sync() }()

		stg, err := openStorage(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer stg.Close()

		svc := service.New(stg, log)
		d, err := svc.Driver().CreateSuperuser(cmd.Context(), form.Username, form.Email, superuser.password, superuser.licenseNumber)
		if err != nil {
			return err
		}
		cmd.Printf("Superuser %q created (id %d)\n", d.Username, d.ID)
		return nil
	},
}

func init() {
	flags := createSuperuserCmd.Flags()
	flags.StringVar(&superuser.username, "username", "", "login name")
	flags.StringVar(&superuser.email, "email", "", "email address")
	flags.StringVar(&superuser.password, "password", "", "password (at least 8 characters)")
	flags.StringVar(&superuser.licenseNumber, "license-number", "", "driver license number")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createSuperuserCmd)
}
