package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	executor "github.com/hanpama/userdir/internal/executor"
	store "github.com/hanpama/userdir/internal/store"
	userdir "github.com/hanpama/userdir/internal/userdir"
)

var steps = []struct {
	name  string
	query string
	want  string
}{
	{
		name:  "createUser",
		query: `mutation createUser { createUser(id:"2", name:"name", email:"name@example.com") { id } }`,
		want:  `{"createUser":{"id":"2"}}`,
	},
	{
		name:  "getUser",
		query: `query getUser { user(id:"2") { id name email } }`,
		want:  `{"user":{"id":"2","name":"name","email":"name@example.com"}}`,
	},
}

func main() {
	cmd := &cobra.Command{
		Use:           "userdemo",
		Short:         "Create a user in a seeded directory and read it back",
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

func run(ctx context.Context, out io.Writer) error {
	ctx = userdir.NewContext(ctx, userdir.New(store.Seeded()))
	exec := userdir.NewExecutor()
	for _, step := range steps {
		res := exec.Execute(ctx, executor.Params{Query: step.query, OperationName: step.name})
		if len(res.Errors) > 0 {
			return fmt.Errorf("%s: %w", step.name, res.Errors[0])
		}
		b, err := json.Marshal(res.Data)
		if err != nil {
			return fmt.Errorf("%s: encode result: %w", step.name, err)
		}
		fmt.Fprintf(out, "%s: %s\n", step.name, b)
		if string(b) != step.want {
			return fmt.Errorf("%s: unexpected result %s, want %s", step.name, b, step.want)
		}
	}
	return nil
}
