package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	schema "github.com/hanpama/userdir/internal/schema"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out))
	require.Equal(t, personResult+"\n", out.String())
}

func TestSchemaRenders(t *testing.T) {
	sch, err := newSchema()
	require.NoError(t, err)
	require.Equal(t, personSDL, schema.Render(sch))

	person := sch.Types["Person"]
	require.NotNil(t, person)
	require.Equal(t, "Int", schema.GetNamedType(person.Field("age").Type))
	require.True(t, schema.IsNonNull(sch.GetQueryType().Field("person").Type))
}
