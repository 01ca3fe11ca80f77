// Command bbcodelint reads BBCode from a file or stdin and prints the
// rendered HTML. With --strict it also exits non-zero when the renderer
// fell back to a tag's literal text.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	bbcode "github.com/usips/go-bbcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bbcodelint [file]",
	Short: "Render or validate BBCode input",
	Long: `bbcodelint converts BBCode to sanitized HTML.

With no file argument it reads from stdin. With --strict it exits 1 if
the renderer emits any tag as literal text instead of HTML (a rejected
URL, email, color, font or size, or a tag with no HTML form). Tags the
parser already turned into text, such as unknown tags or a missing
required option, are not counted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

var (
	maxDepth     int
	noAutoLink   bool
	allowUnknown bool
	strict       bool
	classPrefix  string
	nofollow     bool
	openInNewTab bool
)

func init() {
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 50, "maximum tag nesting depth")
	rootCmd.Flags().BoolVar(&noAutoLink, "no-auto-link", false, "disable bare URL auto-linking")
	rootCmd.Flags().BoolVar(&allowUnknown, "allow-unknown", true, "render unknown tags as literal text instead of dropping them")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "exit 1 if any tag fails to render cleanly")
	rootCmd.Flags().StringVar(&classPrefix, "class-prefix", "bbcode", "CSS class prefix for rendered elements")
	rootCmd.Flags().BoolVar(&nofollow, "nofollow", true, "add rel=\"nofollow\" to rendered links")
	rootCmd.Flags().BoolVar(&openInNewTab, "new-tab", false, "add target=\"_blank\" to rendered links")
}

func run(cmd *cobra.Command, args []string) error {
	var src []byte
	var err error
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
	} else {
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	pc := bbcode.DefaultParserConfig()
	pc.MaxDepth = maxDepth
	pc.AutoLink = !noAutoLink
	pc.AllowUnknownTags = allowUnknown

	rc := bbcode.DefaultRenderConfig()
	rc.ClassPrefix = classPrefix
	rc.NofollowLinks = nofollow
	rc.OpenLinksInNewTab = openInNewTab

	doc := bbcode.NewParser(bbcode.NewRegistry(), pc).Parse(string(src))
	result := bbcode.NewRenderer(rc).RenderWithDiagnostics(doc)

	fmt.Fprintln(cmd.OutOrStdout(), result.HTML)

	if strict && result.Broken > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "bbcodelint: %d tag(s) failed to render\n", result.Broken)
		return fmt.Errorf("%d broken tag(s)", result.Broken)
	}
	return nil
}
