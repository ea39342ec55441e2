package fetch

import "fmt"

const (
	defaultPathSegment  = "mp3"
	completePathSegment = "complete"
)

// A handful of reciters are published under a "complete" directory instead
// of "mp3". Upstream inconsistency, kept as data so fetch logic stays flat.
var completeSegmentReciters = map[string]bool{
	"sodais_and_shuraym":            true,
	"mishaari_w_ibrahiim_al_dosary": true,
	"khalifah_al_tunaiji":           true,
}

func surahFileName(n int) string {
	return fmt.Sprintf("%03d.mp3", n)
}

func surahURL(base, reciterID string, n int) string {
	segment := defaultPathSegment
	if completeSegmentReciters[reciterID] {
		segment = completePathSegment
	}
	return fmt.Sprintf("%s/%s/%s/%s", base, reciterID, segment, surahFileName(n))
}
