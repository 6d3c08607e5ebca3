package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jonathan/cv-uploader/internal/observability"
	"github.com/jonathan/cv-uploader/internal/store"
	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowRecord(t *testing.T) {
	mem := store.NewMemoryStore()
	d := types.NewDraft()
	d.Name = "Jane Doe"
	d.Experiences[0].Company = "Acme"
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	id, err := mem.CreateRecord(context.Background(), "cvs", types.SubmissionRecord{Draft: d, CreatedAt: at})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, showRecord(context.Background(), mem, "cvs", id, observability.NewPrinter(&buf)))

	output := buf.String()
	assert.Contains(t, output, id)
	assert.Contains(t, output, "2024-05-06T07:08:09Z")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Acme")
}

func TestShowRecord_NotFound(t *testing.T) {
	var buf bytes.Buffer
	err := showRecord(context.Background(), store.NewMemoryStore(), "cvs", "nope", observability.NewPrinter(&buf))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, buf.String())
}
