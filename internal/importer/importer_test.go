package importer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvinuesa/fsk2pass/internal/model"
	"github.com/nvinuesa/fsk2pass/internal/pass"
	"github.com/nvinuesa/fsk2pass/internal/security"
)

type insertCall struct {
	dest  string
	lines []string
	force bool
}

// recordingStore is a pass.Inserter that records calls and fails for the
// destinations in errs.
type recordingStore struct {
	calls []insertCall
	errs  map[string]error
	after func()
}

func (s *recordingStore) Insert(_ context.Context, dest string, lines []string, force bool) error {
	s.calls = append(s.calls, insertCall{dest: dest, lines: lines, force: force})
	if s.after != nil {
		s.after()
	}
	return s.errs[dest]
}

var _ pass.Inserter = (*recordingStore)(nil)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestImporter_Scenario(t *testing.T) {
	store := &recordingStore{}
	im := New(store, model.DefaultImportOptions(), nil)

	accounts := []model.Account{{
		Service:  "Mail",
		Username: "bob",
		Password: "secret1",
		URL:      "https://mail.example",
		Notes:    "",
	}}

	summary := im.Run(context.Background(), accounts)

	require.Len(t, store.calls, 1)
	assert.Equal(t, insertCall{
		dest:  "personal/Mail",
		lines: []string{"secret1", "URL: https://mail.example", "Username: bob"},
		force: false,
	}, store.calls[0])

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Count(model.StatusImported))
	assert.False(t, summary.HasFailures())
}

func TestImporter_Options(t *testing.T) {
	account := model.Account{Service: "Bank", Password: "p", URL: "https://bank.example", CreditCvv: "123"}

	tests := []struct {
		name      string
		opts      model.ImportOptions
		wantDest  string
		wantLines []string
		wantForce bool
	}{
		{
			name:      "Defaults",
			opts:      model.DefaultImportOptions(),
			wantDest:  "personal/Bank",
			wantLines: []string{"p", "URL: https://bank.example", "CVV: 123"},
		},
		{
			name:      "Group override",
			opts:      model.ImportOptions{Group: "work", Notes: true},
			wantDest:  "work/Bank",
			wantLines: []string{"p", "URL: https://bank.example", "CVV: 123"},
		},
		{
			name:      "Force",
			opts:      model.ImportOptions{Group: "personal", Notes: true, Force: true},
			wantDest:  "personal/Bank",
			wantLines: []string{"p", "URL: https://bank.example", "CVV: 123"},
			wantForce: true,
		},
		{
			name:      "No notes",
			opts:      model.ImportOptions{Group: "personal"},
			wantDest:  "personal/Bank",
			wantLines: []string{"p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordingStore{}
			New(store, tt.opts, nil).Run(context.Background(), []model.Account{account})

			require.Len(t, store.calls, 1)
			assert.Equal(t, tt.wantDest, store.calls[0].dest)
			assert.Equal(t, tt.wantLines, store.calls[0].lines)
			assert.Equal(t, tt.wantForce, store.calls[0].force)
		})
	}
}

func TestImporter_ContinuesAfterFailure(t *testing.T) {
	var logs bytes.Buffer
	store := &recordingStore{errs: map[string]error{
		"personal/B": &pass.ErrRecordImport{Destination: "personal/B", Stderr: "gpg: decryption failed", ExitCode: 2},
	}}
	im := New(store, model.DefaultImportOptions(), newTestLogger(&logs))

	accounts := []model.Account{
		{Service: "A", Password: "secret-a"},
		{Service: "B", Password: "secret-b"},
		{Service: "C", Password: "secret-c"},
	}
	summary := im.Run(context.Background(), accounts)

	require.Len(t, store.calls, 3)
	assert.Equal(t, []string{"personal/A", "personal/B", "personal/C"},
		[]string{store.calls[0].dest, store.calls[1].dest, store.calls[2].dest})

	require.Len(t, summary.Outcomes, 3)
	assert.Equal(t, model.StatusImported, summary.Outcomes[0].Status)
	assert.Equal(t, model.StatusFailed, summary.Outcomes[1].Status)
	assert.True(t, pass.IsRecordImport(summary.Outcomes[1].Err))
	assert.Equal(t, model.StatusImported, summary.Outcomes[2].Status)
	assert.True(t, summary.HasFailures())

	out := logs.String()
	assert.Contains(t, out, `msg=Imported service=A`)
	assert.Contains(t, out, `msg="Failed to import" service=B`)
	assert.Contains(t, out, `gpg: decryption failed`)
	assert.Contains(t, out, `msg=Imported service=C`)
	assert.NotContains(t, out, "secret", "secrets must never reach the log")
}

func TestImporter_InvalidDestination(t *testing.T) {
	store := &recordingStore{}
	im := New(store, model.DefaultImportOptions(), nil)

	accounts := []model.Account{
		{Service: "", Password: "no-name"},
		{Service: "../escape", Password: "x"},
		{Service: "Fine", Password: "y"},
	}
	summary := im.Run(context.Background(), accounts)

	require.Len(t, store.calls, 1, "invalid destinations never reach pass")
	assert.Equal(t, "personal/Fine", store.calls[0].dest)

	assert.Equal(t, 2, summary.Count(model.StatusSkipped))
	var destErr *security.ErrInvalidDestination
	assert.ErrorAs(t, summary.Outcomes[0].Err, &destErr)
}

func TestImporter_DryRun(t *testing.T) {
	var logs bytes.Buffer
	store := &recordingStore{}
	opts := model.DefaultImportOptions()
	opts.DryRun = true
	im := New(store, opts, newTestLogger(&logs))

	summary := im.Run(context.Background(), []model.Account{
		{Service: "Mail", Password: "secret1"},
		{Service: "Visa", Password: "2468", CreditNumber: "4111111111111111"},
	})

	assert.Empty(t, store.calls)
	assert.Equal(t, 2, summary.Count(model.StatusDryRun))
	assert.False(t, summary.HasFailures())

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "dest=personal/Mail")
	assert.Contains(t, lines[0], "card=false")
	assert.Contains(t, lines[1], "dest=personal/Visa")
	assert.Contains(t, lines[1], "card=true")
	assert.NotContains(t, logs.String(), "4111111111111111")
}

func TestImporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := &recordingStore{after: cancel}
	im := New(store, model.DefaultImportOptions(), nil)

	summary := im.Run(ctx, []model.Account{
		{Service: "A", Password: "1"},
		{Service: "B", Password: "2"},
	})

	assert.Len(t, store.calls, 1)
	assert.Equal(t, 2, summary.Total)
	assert.Len(t, summary.Outcomes, 1)
}

func TestImporter_Elapsed(t *testing.T) {
	im := New(&recordingStore{}, model.DefaultImportOptions(), nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(1500 * time.Millisecond)}
	im.now = func() time.Time {
		now := ticks[0]
		ticks = ticks[1:]
		return now
	}

	summary := im.Run(context.Background(), nil)
	assert.Equal(t, 1500*time.Millisecond, summary.Elapsed)
	assert.Zero(t, summary.Total)
}

func TestImporter_InsertCountMatchesRecords(t *testing.T) {
	for _, n := range []int{0, 1, 7, 50} {
		accounts := make([]model.Account, n)
		for i := range accounts {
			accounts[i] = model.Account{Service: model.FlexString("svc" + string(rune('a'+i%26))), Password: "p"}
		}
		store := &recordingStore{errs: map[string]error{"personal/svcb": errors.New("boom")}}
		New(store, model.DefaultImportOptions(), nil).Run(context.Background(), accounts)
		assert.Len(t, store.calls, n)
	}
}
