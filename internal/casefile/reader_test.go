package casefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCases(t *testing.T) {
	t.Run("keeps input order and ignores extra columns", func(t *testing.T) {
		input := "Transaction ID,amount,Comments,currency_type\n" +
			"A,10.00,refund pending,USD\n" +
			"B,5,\"settled, fee waived\",EUR\n" +
			"C,7.5,still waiting,USD\n"

		cases, err := ParseCases(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []model.Case{
			{TransactionID: "A", Amount: "10.00", Comments: "refund pending"},
			{TransactionID: "B", Amount: "5", Comments: "settled, fee waived"},
			{TransactionID: "C", Amount: "7.5", Comments: "still waiting"},
		}, cases)
	})

	t.Run("missing comments column yields empty comments", func(t *testing.T) {
		cases, err := ParseCases(strings.NewReader("amount,Transaction ID\n3,X\n"))
		require.NoError(t, err)
		require.Len(t, cases, 1)
		assert.Equal(t, model.Case{TransactionID: "X", Amount: "3"}, cases[0])
	})

	t.Run("short rows yield empty fields", func(t *testing.T) {
		cases, err := ParseCases(strings.NewReader("Transaction ID,amount,Comments\nX,3\n"))
		require.NoError(t, err)
		require.Len(t, cases, 1)
		assert.Empty(t, cases[0].Comments)
	})

	t.Run("header padding is tolerated", func(t *testing.T) {
		cases, err := ParseCases(strings.NewReader(" Transaction ID , amount ,Comments\nX,3,ok\n"))
		require.NoError(t, err)
		assert.Equal(t, "ok", cases[0].Comments)
	})

	t.Run("missing id column", func(t *testing.T) {
		_, err := ParseCases(strings.NewReader("amount,Comments\n1,x\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("missing amount column", func(t *testing.T) {
		_, err := ParseCases(strings.NewReader("Transaction ID,Comments\n1,x\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseCases(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("header only", func(t *testing.T) {
		cases, err := ParseCases(strings.NewReader("Transaction ID,amount,Comments\n"))
		require.NoError(t, err)
		assert.Empty(t, cases)
	})
}

func TestReadCases(t *testing.T) {
	dir := t.TempDir()

	t.Run("decodes latin1 input", func(t *testing.T) {
		path := filepath.Join(dir, "latin1.csv")
		content := []byte("Transaction ID,amount,Comments\n" +
			"T1,10,Le remboursement a \xe9t\xe9 effectu\xe9 le lendemain de la r\xe9clamation du client\n" +
			"T2,12,Dossier cl\xf4tur\xe9 : la banque a confirm\xe9 le d\xe9bit et la soci\xe9t\xe9 a rembours\xe9\n")
		require.NoError(t, os.WriteFile(path, content, 0600))

		table, err := ReadCases(path, 10)
		require.NoError(t, err)
		require.Len(t, table.Cases, 2)
		assert.True(t, utf8.ValidString(table.Cases[0].Comments))
		assert.Contains(t, table.Cases[0].Comments, "effectué")
		assert.NotEqual(t, "UTF-8", table.Encoding.Charset)
	})

	t.Run("utf8 input", func(t *testing.T) {
		path := filepath.Join(dir, "utf8.csv")
		require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFTransaction ID,amount,Comments\nT1,1,ok\n"), 0600))

		table, err := ReadCases(path, 30)
		require.NoError(t, err)
		assert.Equal(t, "UTF-8", table.Encoding.Charset)
		assert.Equal(t, "T1", table.Cases[0].TransactionID)
	})

	t.Run("missing file names the path", func(t *testing.T) {
		path := filepath.Join(dir, "nope.csv")
		_, err := ReadCases(path, 30)
		require.ErrorIs(t, err, common.ErrInputNotFound)
		assert.Contains(t, err.Error(), path)
	})

	t.Run("inconclusive encoding names the path", func(t *testing.T) {
		path := filepath.Join(dir, "garbled.csv")
		require.NoError(t, os.WriteFile(path, []byte("Transaction ID,amount\nT\xff\xfe\xfa,1\n"), 0600))

		_, err := ReadCases(path, 101)
		require.ErrorIs(t, err, ErrUndetectableEncoding)
		assert.Contains(t, err.Error(), path)
	})
}
