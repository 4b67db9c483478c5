package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/cli"
	"github.com/voxkit/voxkit/pkg/intent"
	"github.com/voxkit/voxkit/pkg/resolver"
)

var (
	resolveSuggestions int
	suggestLimit       int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <token> <text>...",
	Short: "Resolve recognized text under a session token",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		token := args[0]
		text := strings.Join(args[1:], " ")

		res, err := c.Resolver.ResolveAuthorized(cmd.Context(), token, text)
		if err != nil {
			switch {
			case errors.Is(err, resolver.ErrUnauthorized):
				cli.Warnf("session invalid or expired; log in again")
			case errors.Is(err, intent.ErrNoMatch):
				cli.Warnf("no matching command")
				for _, s := range c.Matcher.Suggest(text, resolveSuggestions) {
					cli.Dimf("  did you mean: %s", s)
				}
			}
			return err
		}

		if jsonOutput {
			return cli.PrintJSON(res)
		}
		fmt.Printf("%s/%s (%.3f)\n", res.Category, res.Intent, res.Confidence)
		for k, v := range res.Params {
			cli.Dimf("  %s = %s", k, v)
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial>...",
	Short: "Suggest grammar patterns for a partial phrase",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		matches := c.Matcher.Suggest(strings.Join(args, " "), suggestLimit)
		if jsonOutput {
			return cli.PrintJSON(matches)
		}
		for _, s := range matches {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().IntVar(&resolveSuggestions, "suggestions", 3, "max suggestions on no match")
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 5, "max suggestions")
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(suggestCmd)
}
