package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"bennypowers.dev/cvf"
	"github.com/mazznoer/csscolorparser"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Print the merged variable table or per-file var() usage",
	Long: "inspect loads the configured fallback sources and prints every merged\n" +
		"variable with its raw value, resolved value, and status. Color values\n" +
		"are annotated with their normalized hex form. With file arguments it\n" +
		"instead prints every var() occurrence in those files and whether each\n" +
		"one resolves.",
	Args: cobra.ArbitraryArgs,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	opts, err := transformerOptions()
	if err != nil {
		return err
	}

	transformer := cvf.New(opts)
	if len(args) > 0 {
		return inspectUsage(os.Stdout, transformer, args)
	}

	infos, _ := transformer.Variables(flagDir)

	if len(infos) == 0 {
		fmt.Fprintln(os.Stderr, "No variables found. Configure fallback sources with -f or a config file.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRAW\tRESOLVED\tSTATUS")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			info.Name, info.Raw, resolvedColumn(info), statusColumn(info))
	}
	return w.Flush()
}

// inspectUsage prints every var() occurrence in the given files with its
// resolution status.
func inspectUsage(out io.Writer, transformer *cvf.Transformer, paths []string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tPROPERTY\tNAME\tRESOLVED\tSTATUS")

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}

		usages, _ := transformer.Usage(cvf.Document{Path: path, Content: string(content)})
		for _, usage := range usages {
			info := cvf.VariableInfo{
				Name:       usage.Name,
				Resolved:   usage.Resolved,
				Resolvable: usage.Resolvable,
				Cyclic:     usage.Cyclic,
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				path, usage.Property, usage.Name, resolvedColumn(info), statusColumn(info))
		}
	}

	return w.Flush()
}

// resolvedColumn renders the resolved value, annotating colors with
// their normalized hex form.
func resolvedColumn(info cvf.VariableInfo) string {
	if !info.Resolvable {
		return "-"
	}
	resolved := info.Resolved
	if hex, ok := normalizeColor(resolved); ok && hex != strings.ToLower(resolved) {
		return fmt.Sprintf("%s (%s)", resolved, hex)
	}
	return resolved
}

func statusColumn(info cvf.VariableInfo) string {
	switch {
	case info.Cyclic:
		return "cyclic"
	case !info.Resolvable:
		return "unresolved"
	default:
		return "ok"
	}
}

// normalizeColor reports the normalized hex form of a CSS color value,
// or false when the value is not a color.
func normalizeColor(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return "", false
	}
	return parsed.HexString(), true
}
