package stealth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScannerFindsOwnedAmongDecoys(t *testing.T) {
	owner, err := GenerateKeys()
	require.NoError(t, err)
	defer owner.Zero()

	decoy, err := GenerateKeys()
	require.NoError(t, err)
	defer decoy.Zero()

	var anns []Announcement
	ownedAt := map[int]bool{}
	for i := 0; i < 100; i++ {
		meta := decoy.MetaAddress(ChainSolana)
		if i%17 == 0 {
			meta = owner.MetaAddress(ChainSolana)
			ownedAt[i] = true
		}
		ota, _, err := DeriveOneTimeAddress(meta)
		require.NoError(t, err)
		ann := Announcement{OneTime: *ota}
		ann.RecordAddress[0] = byte(i)
		anns = append(anns, ann)
	}

	s := NewScanner(16, 0, nil)
	matches, err := s.Scan(context.Background(), anns, []*KeyPair{owner})
	require.NoError(t, err)
	require.Len(t, matches, len(ownedAt))
	for _, m := range matches {
		require.True(t, ownedAt[int(m.Announcement.RecordAddress[0])])
		require.Equal(t, 0, m.KeyIndex)
	}
}

func TestScannerFindsPaymentsToArchivedKeys(t *testing.T) {
	active, err := GenerateKeys()
	require.NoError(t, err)
	defer active.Zero()
	archived, err := GenerateKeys()
	require.NoError(t, err)
	defer archived.Zero()

	ota, _, err := DeriveOneTimeAddress(archived.MetaAddress(ChainSolana))
	require.NoError(t, err)

	s := NewScanner(8, 0, nil)
	matches, err := s.Scan(context.Background(),
		[]Announcement{{OneTime: *ota}},
		[]*KeyPair{active, archived})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 1, matches[0].KeyIndex)
}

func TestScannerHonorsContextCancellation(t *testing.T) {
	owner, err := GenerateKeys()
	require.NoError(t, err)
	defer owner.Zero()

	var anns []Announcement
	for i := 0; i < 20; i++ {
		ota, _, err := DeriveOneTimeAddress(owner.MetaAddress(ChainSolana))
		require.NoError(t, err)
		anns = append(anns, Announcement{OneTime: *ota})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScanner(4, 10*time.Millisecond, nil)
	_, err = s.Scan(ctx, anns, []*KeyPair{owner})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScannerEmptyInput(t *testing.T) {
	s := NewScanner(0, 0, nil)
	matches, err := s.Scan(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, matches)
}
