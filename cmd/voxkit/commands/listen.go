package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/cli"
	"github.com/voxkit/voxkit/pkg/intent"
	"github.com/voxkit/voxkit/pkg/speech"
)

var listenCmd = &cobra.Command{
	Use:   "listen <token>",
	Short: "Resolve utterances from stdin until EOF",
	Long: `Resolve utterances from stdin until EOF.

Each line is treated as one recognized utterance and resolved under
the session token. "stop listening" pauses the loop and "wake up"
resumes it; everything heard while paused is ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := openCore()
		if err != nil {
			return err
		}
		defer done()

		rec := speech.NewLineRecognizer(os.Stdin)
		syn := speech.WriterSynthesizer{W: os.Stdout}
		return c.Listen(cmd.Context(), args[0], rec, syn, func(res *intent.Command) {
			if jsonOutput {
				cli.PrintJSON(res)
				return
			}
			fmt.Printf("%s/%s (%.3f)\n", res.Category, res.Intent, res.Confidence)
			for k, v := range res.Params {
				cli.Dimf("  %s = %s", k, v)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
}
