package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func openStore(t *testing.T, c *clock) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(context.Background(), filepath.Join(dir, ".alias.db"), Options{
		BusyTimeout: time.Second,
		Now:         c.Now,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0755))
}

func sampleSettings(path string) *types.Settings {
	s := types.NewSettings()
	s.Key = "diff"
	s.Name = "Diff"
	s.Command = "/usr/bin/diff -u"
	s.Line = 12
	s.Path = path
	s.Args = "-u"
	s.Env.Set("PAGER", "less")
	s.Env.Set("LANG", "C")
	s.ExecMode = 5
	s.ExclArgs = []int{1, 3}
	s.Prefix = &types.Conditional{Value: "[%T] "}
	s.Charset = &types.Conditional{Value: "UTF-8,GBK", Pattern: "diff"}
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s, dir := openStore(t, c)

	target := filepath.Join(dir, "diff")
	writeFile(t, target)

	want := sampleSettings(target)
	s.Put(ctx, want)
	assert.True(t, want.UpdatedAt.Equal(c.now))

	got, ok := s.Get(ctx, "DIFF")
	require.True(t, ok)
	assert.True(t, got.UpdatedAt.Equal(c.now))
	assert.Equal(t, want.Env.Vars(), got.Env.Vars())

	got.Env = want.Env
	got.UpdatedAt = want.UpdatedAt
	assert.Equal(t, want, got)
}

func TestStore_MinimalRecord(t *testing.T) {
	ctx := context.Background()
	s, dir := openStore(t, &clock{now: time.Now()})
	target := filepath.Join(dir, "tool")
	writeFile(t, target)

	in := types.NewSettings()
	in.Key, in.Name, in.Command, in.Path = "tool", "tool", "tool", target
	s.Put(ctx, in)

	got, ok := s.Get(ctx, "tool")
	require.True(t, ok)
	assert.Equal(t, types.ExecModeDisabled, got.ExecMode)
	assert.Empty(t, got.Args)
	assert.Empty(t, got.ExclArgs)
	assert.Nil(t, got.Prefix)
	assert.Nil(t, got.Charset)
	assert.Zero(t, got.Env.Len())
}

func TestStore_VanishedTargetIsAbsentButKept(t *testing.T) {
	ctx := context.Background()
	s, dir := openStore(t, &clock{now: time.Now()})
	target := filepath.Join(dir, "diff")
	writeFile(t, target)

	s.Put(ctx, sampleSettings(target))
	require.NoError(t, os.Remove(target))

	_, ok := s.Get(ctx, "diff")
	assert.False(t, ok)
	assert.Len(t, s.ListAll(ctx), 1)

	writeFile(t, target)
	_, ok = s.Get(ctx, "diff")
	assert.True(t, ok)
}

func TestStore_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	s, dir := openStore(t, &clock{now: time.Now()})

	for _, name := range []string{"b", "a", "c"} {
		target := filepath.Join(dir, name)
		writeFile(t, target)
		rec := types.NewSettings()
		rec.Key, rec.Name, rec.Command, rec.Path = name, name, name, target
		s.Put(ctx, rec)
	}

	other := filepath.Join(dir, "other")
	writeFile(t, other)
	rec := types.NewSettings()
	rec.Key, rec.Name, rec.Command, rec.Path = "a", "a", "other", other
	s.Put(ctx, rec)

	all := s.ListAll(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].Key, all[1].Key, all[2].Key})
	assert.Equal(t, other, all[0].Path)

	s.Clear(ctx)
	assert.Empty(t, s.ListAll(ctx))
}

func TestStore_Validity(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Add(time.Hour).Truncate(time.Second)
	c := &clock{now: base}
	s, dir := openStore(t, c)

	config := filepath.Join(dir, ".alias")
	assert.False(t, s.IsValid(config), "missing configuration")

	writeFile(t, config)
	require.NoError(t, os.Chtimes(config, base.Add(-time.Minute), base.Add(-time.Minute)))

	target := filepath.Join(dir, "diff")
	writeFile(t, target)
	s.Put(ctx, sampleSettings(target))
	assert.True(t, s.IsValid(config))

	require.NoError(t, os.Chtimes(config, base.Add(time.Minute), base.Add(time.Minute)))
	assert.False(t, s.IsValid(config))

	c.now = base.Add(2 * time.Minute)
	s.Put(ctx, sampleSettings(target))
	assert.True(t, s.IsValid(config))

	assert.False(t, IsValid(filepath.Join(dir, "missing.db"), config))
}

func TestStore_HealsDamagedStore(t *testing.T) {
	ctx := context.Background()
	s, dir := openStore(t, &clock{now: time.Now()})
	target := filepath.Join(dir, "diff")
	writeFile(t, target)
	s.Put(ctx, sampleSettings(target))

	_, err := s.db.ExecContext(ctx, `DROP TABLE aliases`)
	require.NoError(t, err)

	_, ok := s.Get(ctx, "diff")
	assert.False(t, ok)

	s.Put(ctx, sampleSettings(target))
	_, ok = s.Get(ctx, "diff")
	assert.True(t, ok, "store is recreated after healing")
}

func TestOpen_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".alias.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("not a database "), 300), 0644))

	_, err := Open(context.Background(), path, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCacheCorrupt))
}

func TestStore_NilIsDisabled(t *testing.T) {
	ctx := context.Background()
	var s *Store

	_, ok := s.Get(ctx, "x")
	assert.False(t, ok)
	s.Put(ctx, types.NewSettings())
	s.Clear(ctx)
	assert.Nil(t, s.ListAll(ctx))
	assert.False(t, s.IsValid("/nowhere"))
	assert.Empty(t, s.Path())
	assert.NoError(t, s.Close())
}
