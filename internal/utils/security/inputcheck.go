package security

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Limits bounds user-supplied strings before they reach shell commands or
// file paths.
type Limits struct {
	MaxString int
	MaxPath   int
	AllowNL   bool
	AllowTab  bool
}

func DefaultLimits() Limits {
	return Limits{
		MaxString: 4096,
		MaxPath:   4096,
		AllowNL:   true,
		AllowTab:  true,
	}
}

// ValidateString rejects strings with invalid UTF-8, NUL bytes, control
// runes, or excessive length. Empty strings are always valid.
func ValidateString(name, s string, lim Limits) error {
	if s == "" {
		return nil
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s: invalid UTF-8", name)
	}
	if strings.ContainsRune(s, '\x00') {
		return fmt.Errorf("%s: contains NUL byte", name)
	}
	if utf8.RuneCountInString(s) > lim.MaxString {
		return fmt.Errorf("%s: too long (%d > %d)", name, utf8.RuneCountInString(s), lim.MaxString)
	}
	for _, r := range s {
		if r == '\n' && lim.AllowNL {
			continue
		}
		if r == '\t' && lim.AllowTab {
			continue
		}
		if !unicode.IsPrint(r) {
			return fmt.Errorf("%s: contains non-printable/control runes", name)
		}
	}
	return nil
}

// ValidatePath applies ValidateString to a file path.
func ValidatePath(name, s string, lim Limits) error {
	if err := ValidateString(name, s, lim); err != nil {
		return err
	}
	_ = filepath.Clean(s) // validate only, never mutate caller input
	return nil
}

// AttachRecursive installs flag/argument validation on a command and all of
// its subcommands. Cobra runs only the nearest PersistentPreRunE, so a hook
// already present on the root is folded into every subcommand's wrapper to
// keep it running on all invocation paths.
func AttachRecursive(root *cobra.Command, lim Limits) {
	rootHook := root.PersistentPreRunE
	attach(root, lim, nil)
	for _, c := range root.Commands() {
		attachTree(c, lim, rootHook)
	}
}

func attachTree(cmd *cobra.Command, lim Limits, rootHook func(*cobra.Command, []string) error) {
	attach(cmd, lim, rootHook)
	for _, c := range cmd.Commands() {
		attachTree(c, lim, rootHook)
	}
}

func attach(cmd *cobra.Command, lim Limits, rootHook func(*cobra.Command, []string) error) {
	prev := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if err := validateFlagsAndArgs(c, args, lim); err != nil {
			return err
		}
		if rootHook != nil {
			if err := rootHook(c, args); err != nil {
				return err
			}
		}
		if prev != nil {
			return prev(c, args)
		}
		return nil
	}
}

func validateFlagsAndArgs(cmd *cobra.Command, args []string, lim Limits) error {
	for i, a := range args {
		if err := ValidateString(fmt.Sprintf("arg[%d]", i), a, lim); err != nil {
			return err
		}
	}

	var firstErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if firstErr != nil {
			return
		}
		name := fmt.Sprintf("flag --%s", f.Name)
		isPathy := strings.Contains(strings.ToLower(f.Name), "path") ||
			strings.Contains(strings.ToLower(f.Name), "file") ||
			strings.Contains(strings.ToLower(f.Name), "dir")

		switch f.Value.Type() {
		case "string":
			val, _ := cmd.Flags().GetString(f.Name)
			if val == "" {
				return
			}
			if isPathy {
				firstErr = ValidatePath(name, val, lim)
			} else {
				firstErr = ValidateString(name, val, lim)
			}
		case "stringSlice":
			vals, _ := cmd.Flags().GetStringSlice(f.Name)
			for i, v := range vals {
				if v == "" {
					continue
				}
				if isPathy {
					firstErr = ValidatePath(fmt.Sprintf("%s[%d]", name, i), v, lim)
				} else {
					firstErr = ValidateString(fmt.Sprintf("%s[%d]", name, i), v, lim)
				}
				if firstErr != nil {
					return
				}
			}
		default:
			// other flag types carry no free-form text
		}
	})
	return firstErr
}
