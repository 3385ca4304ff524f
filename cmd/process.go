package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tieubaoca/doc2cal/service"
	"github.com/tieubaoca/doc2cal/types"
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the full pipeline from the command line",
	Long: `Extracts text from the optional document, merges it with --text, asks the model
for a calendar script and runs it. The credential comes from the token file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		filePath, _ := cmd.Flags().GetString("file")
		pagesFlag, _ := cmd.Flags().GetString("pages")
		persist, _ := cmd.Flags().GetBool("persist")

		doc, pages, err := documentFromFlags(filePath, pagesFlag)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		if a.cfg.RequireCredential {
			cred, err := a.credentials.Load()
			if err != nil || !cred.Complete() || !cred.Valid() {
				return fmt.Errorf("no valid credential in %s, run the server and visit /authorize first", a.credentials.TokenFile())
			}
		}

		// The user's own file is never removed, so no FileService here.
		pipeline := service.NewPipelineService(a.extractor, a.prompts, a.gateway, a.executor, nil, a.cfg.Executor.CodeLang, a.log)
		result := pipeline.Process(ctx, a.newConversation(), types.ProcessRequest{
			Text:     text,
			Pages:    pages,
			Document: doc,
			Persist:  persist,
		})

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Combined input:\n%s\n\n", result.CombinedInput)
		fmt.Fprintf(out, "Generated code:\n%s\n\n", result.GeneratedCode)
		fmt.Fprintf(out, "Execution output:\n%s\n", result.Execution.Display())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringP("text", "t", "", "Free text describing the events")
	processCmd.Flags().StringP("file", "f", "", "Path to an image, PDF or DOCX file")
	processCmd.Flags().StringP("pages", "p", "", "Comma separated pages to read (at most 2)")
	processCmd.Flags().Bool("persist", false, "Save the exchange instead of clearing the exchange stores")
}
