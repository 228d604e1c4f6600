package anim

import (
	"context"
	"fmt"
)

// Violation is one semantic problem found by Validate. Violations are
// reports, not errors: the container stays decodable.
type Violation struct {
	Frame  uint32
	ID     int32
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("frame %d particle %d: %s", v.Frame, v.ID, v.Detail)
}

// Validate walks the whole animation and reports semantic issues the codec
// itself accepts: texture references past the texture block, sprite cell
// indexes past the sheet grid, and positions escaping the header bounding
// box.
//
// Validation plays every frame through the live-set engine, so it also
// exercises every chunk; a malformed chunk surfaces as an error with its
// frame index.
func Validate(ctx context.Context, r *Reader) ([]Violation, error) {
	var violations []Violation

	total := r.TotalFrames()
	if total == 0 {
		return nil, nil
	}

	header := r.Header()
	textures := r.Textures()

	for f := uint32(0); f < total; f++ {
		live, err := r.Seek(ctx, f)
		if err != nil {
			return violations, err
		}

		for _, p := range live.Rows() {
			if int(p.TexID) >= len(textures) {
				violations = append(violations, Violation{
					Frame:  f,
					ID:     p.ID,
					Detail: fmt.Sprintf("tex_id %d out of range (%d textures)", p.TexID, len(textures)),
				})
			} else if cells := textures[p.TexID].Cells(); int(p.SeqIdx) >= cells {
				violations = append(violations, Violation{
					Frame:  f,
					ID:     p.ID,
					Detail: fmt.Sprintf("seq_idx %d out of range (%d cells)", p.SeqIdx, cells),
				})
			}

			for i := range 3 {
				if p.Pos[i] < header.BBoxMin[i] || p.Pos[i] > header.BBoxMax[i] {
					violations = append(violations, Violation{
						Frame:  f,
						ID:     p.ID,
						Detail: fmt.Sprintf("position %v escapes bbox [%v, %v]", p.Pos, header.BBoxMin, header.BBoxMax),
					})

					break
				}
			}
		}
	}

	return violations, nil
}
