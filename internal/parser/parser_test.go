package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/protocol"
	"github.com/redbco/coldb/internal/session"
)

// create(tbl,...) names a db qualifier (spec §6); it must be validated
// against the active database rather than silently targeting whichever
// database happens to be active (spec §4.1: create_table "fails with
// WrongDatabase if db is not the active database").
func TestParseCreateTableRejectsWrongDatabase(t *testing.T) {
	cat := catalog.New()
	_, err := cat.CreateDB("d1")
	require.NoError(t, err)

	p := New(cat)
	sess := session.New()

	_, err = p.Parse(sess, `create(tbl,"t1",wrongdb,2)`)
	require.Error(t, err)
	pe, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, protocol.InvalidArgument, pe.Status)
}

func TestParseCreateTableAcceptsActiveDatabase(t *testing.T) {
	cat := catalog.New()
	_, err := cat.CreateDB("d1")
	require.NoError(t, err)

	p := New(cat)
	sess := session.New()

	op, err := p.Parse(sess, `create(tbl,"t1",d1,2)`)
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, protocol.KindCreateTable, op.Kind)
	assert.Equal(t, "t1", op.TableName)
	assert.Equal(t, 2, op.NumColumns)
	assert.NotNil(t, op.DB)
}

func TestParseCreateTableFailsWithNoActiveDatabase(t *testing.T) {
	cat := catalog.New()
	p := New(cat)
	sess := session.New()

	_, err := p.Parse(sess, `create(tbl,"t1",d1,2)`)
	require.Error(t, err)
	pe, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, protocol.InvalidArgument, pe.Status)
}
