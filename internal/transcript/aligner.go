package transcript

import "github.com/toller892/paraformer-api-server/internal/engine"

// UnknownSpeaker labels segments no diarization turn overlaps. It never
// appears in the aggregated speakers output.
const UnknownSpeaker = "UNKNOWN"

// AssignSpeakers labels each transcript segment with the speaker whose
// diarization turns overlap it the most. Overlap is accumulated per speaker
// across all turns; ties go to the speaker first seen in turn emission order,
// keeping the assignment deterministic. Segments and turns are chunk-local:
// identifiers from different chunks are independent namespaces.
func AssignSpeakers(segments []engine.Segment, turns []engine.Turn) []engine.Segment {
	out := make([]engine.Segment, len(segments))
	for i, seg := range segments {
		overlap := make(map[string]float64, len(turns))
		var seen []string
		for _, turn := range turns {
			o := overlapLength(seg.Start, seg.End, turn.Start, turn.End)
			if o <= 0 {
				continue
			}
			if _, ok := overlap[turn.Speaker]; !ok {
				seen = append(seen, turn.Speaker)
			}
			overlap[turn.Speaker] += o
		}

		speaker := UnknownSpeaker
		best := 0.0
		for _, id := range seen {
			if overlap[id] > best {
				best = overlap[id]
				speaker = id
			}
		}
		out[i] = seg
		out[i].Speaker = speaker
	}
	return out
}

func overlapLength(s, e, ts, te float64) float64 {
	lo := s
	if ts > lo {
		lo = ts
	}
	hi := e
	if te < hi {
		hi = te
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}
