package peerset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qcbit/ledger/foundation/blockchain/peerset"
)

func TestNewTolerantOfMissingScheme(t *testing.T) {
	withScheme := peerset.New("http://10.0.0.5:5000/")
	withoutScheme := peerset.New("10.0.0.5:5000")
	assert.True(t, withScheme.Match(withoutScheme))
}

func TestAddRejectsSelf(t *testing.T) {
	self := peerset.New("localhost:5000")
	set := peerset.NewSet(self)

	added := set.Add(peerset.New("http://localhost:5000"))
	assert.False(t, added)
	assert.Equal(t, 0, set.Len())
}

func TestAddIsIdempotent(t *testing.T) {
	set := peerset.NewSet(peerset.New("localhost:5000"))

	assert.True(t, set.Add(peerset.New("10.0.0.2:5000")))
	assert.False(t, set.Add(peerset.New("10.0.0.2:5000")))
	assert.Equal(t, 1, set.Len())
}

func TestCopyReturnsSortedSnapshot(t *testing.T) {
	set := peerset.NewSet(peerset.New("localhost:5000"))
	set.Add(peerset.New("10.0.0.9:5000"))
	set.Add(peerset.New("10.0.0.2:5000"))

	peers := set.Copy()
	assert.Len(t, peers, 2)
	assert.Equal(t, "10.0.0.2:5000", peers[0].Host)
	assert.Equal(t, "10.0.0.9:5000", peers[1].Host)
}

func TestRemoveEvictsAPeer(t *testing.T) {
	set := peerset.NewSet(peerset.New("localhost:5000"))
	p := peerset.New("10.0.0.2:5000")
	set.Add(p)
	set.Remove(p)
	assert.Equal(t, 0, set.Len())
}
