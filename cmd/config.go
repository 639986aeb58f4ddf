package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/brogergvhs/skillquiz/internal/config"
)

var flagForceRemove bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config profiles for skillquiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := config.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Loaded config from:\n  %s\n\n", used)
		cfg.Print(os.Stdout)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Default config",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Default configuration:")
		config.DefaultConfig().Print(os.Stdout)
		fmt.Println()

		if !confirm("Create Default config in " + config.ConfigsDir()) {
			fmt.Println("Aborted.")
			return nil
		}

		path, err := config.InitDefaultConfig()
		if errors.Is(err, os.ErrExist) {
			fmt.Println("Configuration already exists at:")
			fmt.Println("  ", path)
			fmt.Println("Use `skillquiz config reset` to recreate it.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Println("Config created at:", path)
		fmt.Println("This config is now active (label: Default).")
		return nil
	},
}

var configAddCmd = &cobra.Command{
	Use:   "add [label] [source.yaml]",
	Short: "Create a new config from defaults or from an existing YAML file",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var label, src string
		if len(args) > 0 {
			label = args[0]
		}
		if len(args) > 1 {
			src = args[1]
		}

		if label == "" {
			prompt := promptui.Prompt{
				Label: "Label for new config",
				Validate: func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("label cannot be empty")
					}
					return nil
				},
			}
			var err error
			if label, err = prompt.Run(); err != nil {
				return fmt.Errorf("input cancelled")
			}
			label = strings.TrimSpace(label)
		}

		path, err := config.CreateConfig(label, src)
		if err != nil {
			return err
		}

		fmt.Printf("Created new config: %s\n", path)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit [label]",
	Short: "Open the current or specified config in $EDITOR",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label, err := labelOrActive(args)
		if err != nil {
			return err
		}

		path, err := config.ConfigPathByLabel(label)
		if err != nil {
			return err
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "nvim"
		}

		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		if err := c.Run(); err != nil {
			return fmt.Errorf("failed to open editor %s: %w", editor, err)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available configs",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := config.ListConfigs()
		if err != nil {
			return fmt.Errorf("cannot read configs directory: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 4, ' ', 0)
		_, _ = fmt.Fprintln(w, "LABEL\tPATH\tACTIVE")
		for _, c := range list {
			mark := ""
			if c.Active {
				mark = "yes"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.Label, c.Path, mark)
		}

		return w.Flush()
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove <label>",
	Short: "Remove a config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := args[0]

		if active, _ := config.CurrentLabel(); label == active && !flagForceRemove {
			if !confirm(fmt.Sprintf("Config %q is currently active. Remove it anyway", label)) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		switched, err := config.RemoveConfig(label)
		if err != nil {
			return err
		}
		if switched {
			fmt.Println("Fallback switched to:", config.DefaultLabel)
		}

		fmt.Printf("Removed configuration %q\n", label)
		return nil
	},
}

var configRenameCmd = &cobra.Command{
	Use:   "rename <old_label> <new_label>",
	Short: "Rename an existing config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.RenameConfig(args[0], args[1]); err != nil {
			return err
		}

		fmt.Printf("Renamed config %q -> %q\n", args[0], args[1])
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the active config to default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResetActive()
		if err != nil {
			return err
		}

		fmt.Printf("Reset active config: %s\n", path)
		return nil
	},
}

var configSwitchCmd = &cobra.Command{
	Use:   "switch [label]",
	Short: "Switch to a different config profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var label string

		if len(args) == 1 {
			label = args[0]
		} else {
			list, err := config.ListConfigs()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no configs available, run `skillquiz config init`")
			}

			items := make([]string, len(list))
			for i, c := range list {
				items[i] = c.Label
				if c.Active {
					items[i] += "  (active)"
				}
			}

			prompt := promptui.Select{
				Label: "Select config",
				Items: items,
			}

			idx, _, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("selection cancelled")
			}
			label = list[idx].Label
		}

		if err := config.SwitchConfig(label); err != nil {
			return err
		}

		fmt.Println("Switched to:", label)
		return nil
	},
}

func init() {
	configRemoveCmd.Flags().BoolVarP(&flagForceRemove, "force", "f", false, "remove without asking, even if active")

	configCmd.AddCommand(
		configInitCmd,
		configAddCmd,
		configEditCmd,
		configListCmd,
		configRemoveCmd,
		configRenameCmd,
		configResetCmd,
		configSwitchCmd,
	)
	rootCmd.AddCommand(configCmd)
}

func labelOrActive(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	label, err := config.CurrentLabel()
	if err != nil {
		return "", fmt.Errorf("failed to get current config label: %w", err)
	}
	return label, nil
}

// confirm asks a y/N question; anything but an explicit yes is a no.
func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	return err == nil
}
