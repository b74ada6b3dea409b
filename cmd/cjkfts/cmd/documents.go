package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cjkfts/internal/output"
	"github.com/Aman-CERP/cjkfts/pkg/engine"
)

// documentFlags are the content flags shared by add and update.
type documentFlags struct {
	title    string
	body     string
	metadata string
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Document title")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "Document body")
	cmd.Flags().StringVarP(&f.metadata, "metadata", "m", "", `Metadata as a JSON object, e.g. '{"city":"서울"}'`)
}

func newAddCmd(a *app) *cobra.Command {
	var doc documentFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one document and print its id",
		Long: `Add one document and print its generated id.

Metadata that is not a JSON object is stored as {}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd.Context(), func(e *engine.Engine) error {
				id, err := e.Add(cmd.Context(), doc.title, doc.body, doc.metadata)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}
	doc.register(cmd)

	return cmd
}

// batchDocument is one element of an add-batch file. Metadata may be a JSON
// object or a string holding one.
type batchDocument struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Metadata json.RawMessage `json:"metadata"`
}

func (d batchDocument) input() engine.DocumentInput {
	in := engine.DocumentInput{ID: d.ID, Title: d.Title, Body: d.Body}
	raw := bytes.TrimSpace(d.Metadata)
	var s string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		in.Metadata = s
	} else {
		in.Metadata = string(raw)
	}
	return in
}

func readBatch(r io.Reader) ([]engine.DocumentInput, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var docs []batchDocument
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to parse documents: %w", err)
	}

	inputs := make([]engine.DocumentInput, len(docs))
	for i, d := range docs {
		inputs[i] = d.input()
	}
	return inputs, nil
}

func newAddBatchCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "add-batch <file.json|->",
		Short: "Add documents from a JSON file in one commit",
		Long: `Add every document in a JSON array in one commit and print their ids.

Each element has title, body, and optionally id and metadata:

  [{"title": "인천국제공항", "body": "...", "metadata": {"iata": "ICN"}},
   {"id": "hnd", "title": "東京国際空港", "body": "..."}]

Elements without an id get a generated one. Use - to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer func() { _ = file.Close() }()
				r = file
			}

			docs, err := readBatch(r)
			if err != nil {
				return err
			}

			return a.withEngine(cmd.Context(), func(e *engine.Engine) error {
				ids, err := e.AddBatch(cmd.Context(), docs)
				if err != nil {
					return err
				}
				out := output.New(cmd.OutOrStdout())
				if f == output.FormatJSON {
					if ids == nil {
						ids = []string{}
					}
					return out.JSON(ids)
				}
				for _, id := range ids {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var doc documentFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the documents with an id",
		Long: `Replace every document with the given id by one new document, in one
commit. An id that does not exist yet is simply added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *engine.Engine) error {
				if err := e.Update(cmd.Context(), args[0], doc.title, doc.body, doc.metadata); err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Successf("Updated %s", args[0])
				return nil
			})
		},
	}
	doc.register(cmd)

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete documents by id",
		Long:  `Delete every document with any of the given ids in one commit. Unknown ids are ignored.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *engine.Engine) error {
				if err := e.DeleteBatch(cmd.Context(), args); err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Successf("Deleted documents with %d id(s)", len(args))
				return nil
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear %s without --yes", a.resolvedIndexPath())
			}
			return a.withEngine(cmd.Context(), func(e *engine.Engine) error {
				if err := e.ClearAll(cmd.Context()); err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Successf("Cleared %s", a.resolvedIndexPath())
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deleting every document")

	return cmd
}
