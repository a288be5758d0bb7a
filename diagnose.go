package sparsegrid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

// KindStat is one kind's entry in a diagnostics dump.
type KindStat struct {
	Kind     KindID `json:"kind"`
	Name     string `json:"name"`
	Capacity uint64 `json:"capacity"`
	Resident uint64 `json:"resident"`
	Recycled uint64 `json:"recycled"`

	// Occupancy is the serialized bitmap of active slots, omitted for
	// kinds whose arena has no activations.
	Occupancy []byte `json:"occupancy,omitempty"`
}

// DumpStats writes a zstd-compressed stream of KindStat records, one JSON
// document per populated kind, to w. The dump is a point-in-time diagnostic;
// it may run concurrently with allocation and observes a racy but internally
// consistent snapshot per kind. Writes are throttled by the controller's IO
// limit.
func (r *Registry) DumpStats(ctx context.Context, w io.Writer) error {
	start := time.Now()
	kinds, err := r.dumpStats(ctx, w)
	r.metrics.RecordDump(kinds, time.Since(start), err)
	r.logger.LogDump(ctx, kinds, err)
	return err
}

func (r *Registry) dumpStats(ctx context.Context, w io.Writer) (int, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("create compressor: %w", err)
	}

	enc := json.NewEncoder(zw)
	kinds := 0
	for i := range r.slots {
		h, _ := r.slots[i].v.Load().(managerHandle)
		if h == nil {
			continue
		}

		st := h.stat()
		ks := KindStat{
			Kind:     st.Kind,
			Name:     r.kinds[i].name,
			Capacity: st.Capacity,
			Resident: st.Resident,
			Recycled: st.Recycled,
		}
		if active := h.activeSet(); !active.IsEmpty() {
			ks.Occupancy, err = active.MarshalBinary()
			if err != nil {
				zw.Close()
				return kinds, fmt.Errorf("marshal occupancy for kind %d: %w", st.Kind, err)
			}
		}

		if err := r.ctrl.AcquireIO(ctx, len(ks.Occupancy)); err != nil {
			zw.Close()
			return kinds, fmt.Errorf("io budget for kind %d: %w", st.Kind, err)
		}
		if err := enc.Encode(ks); err != nil {
			zw.Close()
			return kinds, fmt.Errorf("encode kind %d: %w", st.Kind, err)
		}
		kinds++
	}

	if err := zw.Close(); err != nil {
		return kinds, fmt.Errorf("flush compressor: %w", err)
	}
	return kinds, nil
}

// ReadStats decodes a DumpStats stream back into KindStat records.
func ReadStats(rd io.Reader) ([]KindStat, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("create decompressor: %w", err)
	}
	defer zr.Close()

	var out []KindStat
	dec := json.NewDecoder(zr)
	for {
		var ks KindStat
		if err := dec.Decode(&ks); err == io.EOF {
			return out, nil
		} else if err != nil {
			return out, fmt.Errorf("decode stats: %w", err)
		}
		out = append(out, ks)
	}
}
