package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/salonsite/internal/schema"
)

const (
	salonCSV = "\ufeffid,title,address,city_id,state_id,category_ids,reviews\n" +
		"1,Salon A,,c1,s1,\"k1,k2\",\"1,204\"\n" +
		",,,,,,\n" +
		"2,Salon B,\"123 Main St, Springfield, Illinois, USA\",,,k1,12\n"
	cityCSV     = "ID,Name,State_ID\nc1,Springfield,s1\n"
	stateCSV    = "id,name\ns1,Illinois\n"
	categoryCSV = "id,name\nk1,Hair\nk2,Nails\n"
)

func writeZip(t *testing.T, members map[string]string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "input.zip")
	f, err := os.Create(p)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, body := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return p
}

func fullArchive() map[string]string {
	return map[string]string{
		"beauty_salon.csv": salonCSV,
		"city.csv":         cityCSV,
		"state.csv":        stateCSV,
		"category.csv":     categoryCSV,
	}
}

func TestLoad(t *testing.T) {
	p := writeZip(t, fullArchive())

	got, err := Load(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, got.Salons, 2, "blank row is skipped")
	assert.Equal(t, "1", got.Salons[0].ID, "BOM is stripped from the first header")
	assert.Equal(t, "k1,k2", got.Salons[0].CategoryIDs)
	assert.Equal(t, "1204", got.Salons[0].Reviews)
	assert.Equal(t, "123 Main St, Springfield, Illinois, USA", got.Salons[1].Address)
	assert.Empty(t, got.Salons[1].CityID)

	require.Len(t, got.Cities, 1)
	assert.Equal(t, "s1", got.Cities[0].StateID, "headers match case-insensitively")
	assert.Len(t, got.States, 1)
	assert.Len(t, got.Categories, 2)
}

func TestLoad_NestedMembers(t *testing.T) {
	members := map[string]string{}
	for name, body := range fullArchive() {
		members["export/"+name] = body
	}
	members["__MACOSX/export/._city.csv"] = "garbage"

	got, err := Load(context.Background(), writeZip(t, members))
	require.NoError(t, err)
	assert.Len(t, got.Cities, 1)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr error
	}{
		{
			name:    "missing member",
			mutate:  func(m map[string]string) { delete(m, "state.csv") },
			wantErr: ErrMemberMissing,
		},
		{
			name:    "missing id column",
			mutate:  func(m map[string]string) { m["category.csv"] = "key,name\nk1,Hair\n" },
			wantErr: ErrMissingIDColumn,
		},
		{
			name:    "empty member",
			mutate:  func(m map[string]string) { m["city.csv"] = "" },
			wantErr: ErrMissingIDColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := fullArchive()
			tt.mutate(members)

			_, err := Load(context.Background(), writeZip(t, members))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_UnreadableArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "not.zip")
	require.NoError(t, os.WriteFile(p, []byte("plain text"), 0o644))

	_, err := Load(context.Background(), p)
	assert.ErrorIs(t, err, ErrArchiveUnreadable)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "absent.zip"))
	assert.ErrorIs(t, err, ErrArchiveUnreadable)
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, writeZip(t, fullArchive()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadTable_InvalidUTF8(t *testing.T) {
	body := "id,name\ns1,Ill\xffinois\n"

	records, err := ReadTable(context.Background(), strings.NewReader(body), schema.States)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ill\ufffdinois", records[0].Get("name"))
}

func TestReadTable_ReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := ReadTable(context.Background(), iotest.ErrReader(boom), schema.States)
	assert.ErrorIs(t, err, ErrInvalidCSV)

	r := io.MultiReader(strings.NewReader("id,name\ns1,Illinois\n"), iotest.ErrReader(boom))
	_, err = ReadTable(context.Background(), r, schema.States)
	assert.ErrorIs(t, err, ErrInvalidCSV)
}

func TestReadTable_ShortRows(t *testing.T) {
	body := "id,name,state_id\nc1,Springfield\n"

	records, err := ReadTable(context.Background(), strings.NewReader(body), schema.Cities)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Get("state_id"))
}

func TestReadTable_DecimalCommasKept(t *testing.T) {
	body := "id,latitude,longitude,average_star,reviews\n" +
		"1,\"41,8781\",\"-87,6298\",\"4,5\",\"1,204\"\n"

	records, err := ReadTable(context.Background(), strings.NewReader(body), schema.Salons)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "41,8781", r.Get(schema.ColLatitude))
	assert.Equal(t, "-87,6298", r.Get(schema.ColLongitude))
	assert.Equal(t, "4,5", r.Get(schema.ColAverageStar))
	assert.Equal(t, "1204", r.Get(schema.ColReviews))
}
