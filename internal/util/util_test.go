package util

import (
	"errors"
	"indexcap/internal/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadParamsTable(t *testing.T) {
	t.Run("no file keeps presets", func(t *testing.T) {
		table, err := LoadParamsTable("")
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff(domain.DefaultParamsTable(), table))
	})

	t.Run("overrides and adds regions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "params.yaml")
		err := os.WriteFile(path, []byte(`
regions:
  sto:
    cap: 0.05
    exceptionCap: 0.1
    exceptionAggregateLimit: 0.4
  OSL:
    cap: 0.045
    exceptionCap: 0.08
    exceptionAggregateLimit: 0.36
`), 0o600)
		require.NoError(t, err)

		table, err := LoadParamsTable(path)
		require.NoError(t, err)

		require.Equal(t, domain.CappingParameters{Cap: 0.05, ExceptionCap: 0.1, ExceptionAggregateLimit: 0.4}, table.Lookup("STO"))
		require.Equal(t, 0.08, table.Lookup("osl").ExceptionCap)
		require.Equal(t, domain.DefaultParameters, table.Lookup("CPH"))
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "params.yaml")
		require.NoError(t, os.WriteFile(path, []byte("regions:\n  CPH:\n    cap: 1.5\n"), 0o600))

		_, err := LoadParamsTable(path)
		require.ErrorContains(t, err, "cap must be within [0, 1]")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadParamsTable(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestLoadSecrets(t *testing.T) {
	t.Run("file plus env overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secrets.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"factset": {"usernameSerial": "USER-1", "apiKey": "file-key"},
			"db": {"host": "localhost", "port": "5440", "user": "postgres", "password": "postgres", "database": "indexcap"},
			"email": {"region": "eu-north-1", "fromEmail": "index@example.com"}
		}`), 0o600))

		t.Setenv("INDEXCAP_SECRETS_FILE", path)
		t.Setenv("FACTSET_API_KEY", "env-key")
		t.Setenv("NOTIFY_RECIPIENTS", "a@example.com, b@example.com,")

		s, err := LoadSecrets()
		require.NoError(t, err)
		require.Equal(t, "USER-1", s.FactSet.UsernameSerial)
		require.Equal(t, "env-key", s.FactSet.ApiKey)
		require.Equal(t, []string{"a@example.com", "b@example.com"}, s.Email.Recipients)
		require.Equal(
			t,
			"host=localhost port=5440 user=postgres password=postgres dbname=indexcap sslmode=disable",
			s.Db.ToConnectionStr(),
		)
	})

	t.Run("env only", func(t *testing.T) {
		t.Setenv("INDEXCAP_SECRETS_FILE", filepath.Join(t.TempDir(), "missing.json"))
		t.Setenv("PG_URL", "postgres://u:p@db:5432/indexcap")

		s, err := LoadSecrets()
		require.NoError(t, err)
		require.Equal(t, "postgres://u:p@db:5432/indexcap", s.Db.ToConnectionStr())
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv("INDEXCAP_SECRETS_FILE", filepath.Join(t.TempDir(), "missing.json"))
		t.Setenv("PG_URL", "")
		t.Setenv("FACTSET_API_KEY", "")

		_, err := LoadSecrets()
		require.True(t, errors.Is(err, ErrSecretsNotFound))
	})
}

func TestParseAsOf(t *testing.T) {
	d, err := ParseAsOf("2024-03-15")
	require.NoError(t, err)
	require.Equal(t, NewDate(2024, 3, 15), d)
	require.Equal(t, "2024-03-15", FormatDate(d))

	_, err = ParseAsOf("15/03/2024")
	require.Error(t, err)

	today, err := ParseAsOf("")
	require.NoError(t, err)
	require.True(t, DateLte(today, today))
}
