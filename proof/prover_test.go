package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashProverDeterministic(t *testing.T) {
	commitment := make([]byte, 33)
	commitment[0] = 0x02
	blinding := make([]byte, 32)
	blinding[5] = 0x7f

	var p HashProver
	a, err := p.Prove(commitment, blinding, 1000)
	require.NoError(t, err)
	require.Len(t, a, HashProofLen)

	b, err := p.Prove(commitment, blinding, 1000)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := p.Prove(commitment, blinding, 1001)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestHashProverValidatesInputs(t *testing.T) {
	var p HashProver

	_, err := p.Prove(nil, make([]byte, 32), 1)
	assert.Error(t, err)

	_, err = p.Prove(make([]byte, 33), make([]byte, 16), 1)
	assert.Error(t, err)
}
