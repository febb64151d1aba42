package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jkim117/gaia2read"
	"github.com/jkim117/gaia2read/blobstore"
	"github.com/jkim117/gaia2read/codec"
	"github.com/jkim117/gaia2read/internal/output"
	"github.com/jkim117/gaia2read/model"
	"github.com/jkim117/gaia2read/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureStars() []model.Star {
	return []model.Star{
		testutil.NewStar(100, 10.0, 5.0),
		testutil.NewStar(200, 10.02, 5.02),
		testutil.NewStar(300, 10.2, 5.0),
		testutil.NewStar(400, 200.0, -30.0),
	}
}

var fixtureCrossIDs = []model.CrossIDEntry{
	{Gaia: 100, TMass: 1106354100011350, HAT: 4567123123},
}

func buildCatalog(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, gaia2read.Build(context.Background(), blobstore.NewLocalStore(root), fixtureStars(), fixtureCrossIDs, gaia2read.BuildOptions{}))
	return root
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("GAIA2READ_CATALOG", "")
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func firstFields(out string) []string {
	var ids []string
	for _, l := range lines(out) {
		ids = append(ids, strings.Fields(l)[0])
	}
	return ids
}

func TestQuery_Box(t *testing.T) {
	root := buildCatalog(t)

	out, _, err := run(t, "query", "--catalog", root, "--pos", "10 5", "--size", "0.1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"100", "200"}, firstFields(out))

	out, _, err = run(t, "query", "--catalog", root, "-r", "00:40:00", "-d", "+05:00:00", "-s", "0.1", "--parallel", "4")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"100", "200"}, firstFields(out))
}

func TestQuery_Circle(t *testing.T) {
	root := buildCatalog(t)

	// The box corner star at (10.02, 5.02) lies inside a 0.05 box but
	// outside a 0.025 circle.
	out, _, err := run(t, "query", "--catalog", root, "--pos", "10,5", "--size", "0.025", "--circ")
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, firstFields(out))
}

func TestQuery_FullSkyWithHeader(t *testing.T) {
	root := buildCatalog(t)

	out, _, err := run(t, "query", "--catalog", root, "--header", "--cmdline")
	require.NoError(t, err)
	l := lines(out)
	require.Len(t, l, 2+len(fixtureStars()))
	assert.True(t, strings.HasPrefix(l[0], "Gaia ID[1]"))
	assert.True(t, strings.HasPrefix(l[1], "# "))
}

func TestQuery_ByID(t *testing.T) {
	root := buildCatalog(t)

	out, _, err := run(t, "query", "--catalog", root, "300", "-g", "100")
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "300"}, firstFields(out))

	idfile := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(idfile, []byte("# wanted\n400\n\n200  # trailing\n"), 0o644))
	out, _, err = run(t, "query", "--catalog", root, "--idfile", idfile)
	require.NoError(t, err)
	assert.Equal(t, []string{"400", "200"}, firstFields(out))

	out, _, err = run(t, "query", "--catalog", root, "@"+idfile)
	require.NoError(t, err)
	assert.Equal(t, []string{"400", "200"}, firstFields(out))

	out, _, err = run(t, "query", "--catalog", root, "--idtype", "TMASS", "10635410+0011350")
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, firstFields(out))

	out, _, err = run(t, "query", "--catalog", root, "--idrequest", "HAT", "100", "300")
	require.NoError(t, err)
	l := lines(out)
	require.Len(t, l, 2)
	assert.True(t, strings.HasPrefix(l[0], "HAT 123-4567123 "))
	assert.True(t, strings.HasPrefix(l[1], "GAIA 300 "))

	_, _, err = run(t, "query", "--catalog", root, "101")
	assert.ErrorIs(t, err, gaia2read.ErrIdentifierNotFound)
}

func TestQuery_ProperMotionAndPrecession(t *testing.T) {
	root := buildCatalog(t)

	out, _, err := run(t, "query", "--catalog", root, "--pm", "2025.5", "100")
	require.NoError(t, err)
	assert.Equal(t, "5.0000000000", strings.Fields(out)[2])

	out, _, err = run(t, "query", "--catalog", root, "--precess", "J2050", "100")
	require.NoError(t, err)
	assert.NotEqual(t, "10.0000000000", strings.Fields(out)[1])
}

func TestQuery_NoStarFound(t *testing.T) {
	root := buildCatalog(t)

	_, _, err := run(t, "query", "--catalog", root, "--pos", "100 40", "--size", "0.1")
	assert.ErrorIs(t, err, errNoStar)

	_, _, err = run(t, "query", "--catalog", root, "--pos", "10 5", "--size", "0.1", "--gmax", "10")
	assert.ErrorIs(t, err, errNoStar)
}

func TestQuery_UsageErrors(t *testing.T) {
	root := buildCatalog(t)

	tests := [][]string{
		{"--ra", "10"},
		{"--pos", "10 5"},
		{"--pos", "10 5", "--size", "400"},
		{"--pos", "10 95", "--size", "1"},
		{"--pos", "nowhere", "--size", "1"},
		{"--size", "1"},
		{"--pos", "10 5", "--size", "1", "100"},
		{"--idtype", "SDSS", "100"},
		{"--pm", "soon", "100"},
	}
	for _, args := range tests {
		_, _, err := run(t, append([]string{"query", "--catalog", root}, args...)...)
		var ee *exitError
		assert.ErrorAs(t, err, &ee, "%v", args)
	}
}

func TestQuery_CompressedOutput(t *testing.T) {
	root := buildCatalog(t)
	path := filepath.Join(t.TempDir(), "stars.txt.zst")

	out, _, err := run(t, "query", "--catalog", root, "-o", path, "--extra", "100")
	require.NoError(t, err)
	assert.Empty(t, out)

	r, err := output.Open(path)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(string(data)), 49)
}

func TestQuery_Stats(t *testing.T) {
	root := buildCatalog(t)

	_, stderr, err := run(t, "query", "--catalog", root, "--stats", "--cache", "1048576", "--pos", "10 5", "--size", "0.1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "gaia2read_operations_total{op=search,status=success} 1")
	assert.Contains(t, stderr, "# cache{kind=zone}")
}

func TestQuery_MissingCatalog(t *testing.T) {
	_, _, err := run(t, "query", "--catalog", filepath.Join(t.TempDir(), "absent"), "100")
	assert.ErrorIs(t, err, gaia2read.ErrFileUnavailable)
}

func TestTranslate(t *testing.T) {
	root := buildCatalog(t)

	out, _, err := run(t, "translate", "--catalog", root, "--from", "GAIA", "--to", "HAT", "100")
	require.NoError(t, err)
	assert.Equal(t, "100 123-4567123\n", out)

	out, _, err = run(t, "translate", "--catalog", root, "--from", "2MASS", "--to", "GAIA", "10635410+0011350")
	require.NoError(t, err)
	assert.Equal(t, "10635410+0011350 100\n", out)

	out, stderr, err := run(t, "translate", "--catalog", root, "--from", "GAIA", "--to", "TMASS", "100", "300")
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "100 10635410+0011350\n", out)
	assert.Contains(t, stderr, "Gaia 300: not found")
}

func TestBuildAndPublish(t *testing.T) {
	dir := t.TempDir()

	var raw []byte
	for _, s := range fixtureStars() {
		raw = codec.AppendStar(raw, &s)
	}
	w, err := output.Create(filepath.Join(dir, "part-0.bin.lz4"), nil)
	require.NoError(t, err)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var xid []byte
	for _, e := range fixtureCrossIDs {
		xid = codec.AppendCrossIDEntry(xid, e)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xid.bin"), xid, 0o644))

	built := filepath.Join(dir, "catalog")
	_, _, err = run(t, "build", "--in", filepath.Join(dir, "part-*.bin.lz4"), "--crossid", filepath.Join(dir, "xid.bin"), "--to", built)
	require.NoError(t, err)

	out, _, err := run(t, "query", "--catalog", built, "--pos", "10 5", "--size", "0.1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"100", "200"}, firstFields(out))

	published := filepath.Join(dir, "copy")
	_, _, err = run(t, "publish", "--catalog", built, "--to", published)
	require.NoError(t, err)

	names, err := blobstore.NewLocalStore(published).List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, names, 900+9+3)

	out, _, err = run(t, "translate", "--catalog", published, "--from", "HAT", "--to", "GAIA", "123-4567123")
	require.NoError(t, err)
	assert.Equal(t, "123-4567123 100\n", out)

	_, _, err = run(t, "build", "--in", filepath.Join(dir, "nothing-*"), "--to", built)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "gaia2read "))
}
