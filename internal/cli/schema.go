// Package cli holds helpers shared by the techwiki and techwikid binaries.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const helpJSONFlag = "help-json"

// FlagSchema describes one command flag.
type FlagSchema struct {
	Name        string   `json:"name"`
	Shorthand   string   `json:"shorthand,omitempty"`
	Type        string   `json:"type"`
	Default     string   `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Required    bool     `json:"required"`
	Inherited   bool     `json:"inherited,omitempty"`
}

// CommandSchema is the machine-readable help of one command. Args lists the
// positional placeholders from Use, e.g. "<id>" or "[query]".
type CommandSchema struct {
	Name        string          `json:"name"`
	Use         string          `json:"use,omitempty"`
	Aliases     []string        `json:"aliases,omitempty"`
	Args        []string        `json:"args,omitempty"`
	Description string          `json:"description,omitempty"`
	Long        string          `json:"long,omitempty"`
	Example     string          `json:"example,omitempty"`
	Flags       []FlagSchema    `json:"flags,omitempty"`
	Subcommands []CommandSchema `json:"subcommands,omitempty"`
}

// GenerateSchema walks cmd and its visible subcommands, sorted by name.
func GenerateSchema(cmd *cobra.Command) CommandSchema {
	schema := CommandSchema{
		Name:        cmd.Name(),
		Use:         cmd.Use,
		Aliases:     cmd.Aliases,
		Args:        positionalArgs(cmd.Use),
		Description: cmd.Short,
		Long:        cmd.Long,
		Example:     cmd.Example,
		Flags:       commandFlags(cmd),
	}

	subs := cmd.Commands()
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name() < subs[j].Name() })
	for _, sub := range subs {
		if !sub.IsAvailableCommand() || sub.Name() == "completion" {
			continue
		}
		schema.Subcommands = append(schema.Subcommands, GenerateSchema(sub))
	}
	return schema
}

func positionalArgs(use string) []string {
	fields := strings.Fields(use)
	if len(fields) < 2 {
		return nil
	}
	var args []string
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "[flags]") {
			continue
		}
		args = append(args, f)
	}
	return args
}

// commandFlags lists local flags first, then flags inherited from parents.
func commandFlags(cmd *cobra.Command) []FlagSchema {
	var flags []FlagSchema
	collect := func(set *pflag.FlagSet, inherited bool) {
		set.VisitAll(func(f *pflag.Flag) {
			if f.Hidden || f.Name == helpJSONFlag || f.Name == "help" {
				return
			}
			fs := flagSchema(f)
			fs.Inherited = inherited
			flags = append(flags, fs)
		})
	}
	collect(cmd.LocalFlags(), false)
	collect(cmd.InheritedFlags(), true)
	return flags
}

func flagSchema(f *pflag.Flag) FlagSchema {
	fs := FlagSchema{
		Name:        f.Name,
		Shorthand:   f.Shorthand,
		Type:        f.Value.Type(),
		Default:     f.DefValue,
		Description: f.Usage,
	}
	if ev, ok := f.Value.(*EnumValue); ok {
		fs.Enum = ev.Allowed()
	}
	_, fs.Required = f.Annotations[cobra.BashCompOneRequiredFlag]
	return fs
}

// WriteSchema encodes the schema of cmd as indented JSON.
func WriteSchema(w io.Writer, cmd *cobra.Command) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(GenerateSchema(cmd)); err != nil {
		return fmt.Errorf("write schema of %s: %w", cmd.CommandPath(), err)
	}
	return nil
}

// AddHelpJSONFlag adds the persistent --help-json flag.
func AddHelpJSONFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(helpJSONFlag, false, "Print the command schema as JSON and exit")
}

// CheckHelpJSON prints the schema of the addressed command and exits when
// --help-json appears on the command line. It runs before Execute so
// positional argument validation cannot reject the call.
func CheckHelpJSON(rootCmd *cobra.Command) {
	args := os.Args[1:]
	for i, arg := range args {
		if arg != "--"+helpJSONFlag {
			continue
		}
		if err := WriteSchema(os.Stdout, FindCommand(rootCmd, args[:i])); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}
}

// FindCommand resolves the deepest subcommand named by args. Flags are
// skipped; the first word that is not a subcommand ends the walk.
func FindCommand(cmd *cobra.Command, args []string) *cobra.Command {
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		for _, sub := range cmd.Commands() {
			if sub.Name() == arg || sub.HasAlias(arg) {
				return FindCommand(sub, args[i+1:])
			}
		}
		return cmd
	}
	return cmd
}
