package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	executor "github.com/hanpama/userdir/internal/executor"
	schema "github.com/hanpama/userdir/internal/schema"
)

const (
	personQuery  = `query { person { id name age } }`
	personResult = `{"person":{"id":"1","name":"name","age":23}}`
)

func main() {
	cmd := &cobra.Command{
		Use:           "persondemo",
		Short:         "Run a query against a static person resolver and check the result",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const personSDL = `type Person {
  id: String!
  name: String!
  age: Int!
}

type Query {
  person: Person!
}
`

func newSchema() (*schema.Schema, error) {
	return schema.BuildFromSDL(personSDL)
}

func newRuntime() *executor.FuncRuntime {
	return executor.NewFuncRuntime().
		Register("Query", "person", func(context.Context, any, map[string]any) (any, error) {
			return map[string]any{"id": "1", "name": "name", "age": 23}, nil
		})
}

func run(ctx context.Context, out io.Writer) error {
	sch, err := newSchema()
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	exec := executor.NewExecutor(newRuntime(), sch)
	res := exec.Execute(ctx, executor.Params{Query: personQuery})
	if len(res.Errors) > 0 {
		return fmt.Errorf("query failed: %w", res.Errors[0])
	}
	b, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(out, string(b))
	if string(b) != personResult {
		return fmt.Errorf("unexpected result %s, want %s", b, personResult)
	}
	return nil
}
