package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/enlightendev/dataconfig/wiring"
)

const secretMask = "********"

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Print the resolved connection parameters and vendor properties",
	Long: `Print the connection parameters and vendor properties as they will be
handed to the connection factory and the entity manager factory.

The password is hidden by default; use --show-secrets to reveal it.`,
	RunE: runProperties,
}

func init() {
	propertiesCmd.Flags().Bool("show-secrets", false, "show the database password")
}

type connectionView struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type propertiesView struct {
	Env        string            `yaml:"env"`
	Connection connectionView    `yaml:"connection"`
	Vendor     map[string]string `yaml:"vendor"`
}

func runProperties(cmd *cobra.Command, args []string) error {
	showSecrets, _ := cmd.Flags().GetBool("show-secrets")

	cfg, c, err := buildComponents(cmd.Context())
	if err != nil {
		return err
	}

	return writeProperties(cmd.OutOrStdout(), cfg.Env, c, showSecrets)
}

func writeProperties(w io.Writer, env string, c *wiring.Components, showSecrets bool) error {
	params := c.DataSource.Params()

	password := params.Password
	if password != "" && !showSecrets {
		password = secretMask
	}

	view := propertiesView{
		Env: env,
		Connection: connectionView{
			Driver:   params.Driver,
			URL:      params.URL,
			User:     params.Username,
			Password: password,
		},
		Vendor: c.VendorProperties.Map(),
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}
	return enc.Close()
}
