package adjacency

import (
	"github.com/patmonardo/graphcore/pkg/metrics"
)

// Instrument wraps a factory so every built list is counted and sized in the
// registry, labeled by the encoding actually applied. The mixed strategy thus
// shows up split across its packed and compressed outcomes.
func Instrument(f Factory, m *metrics.Registry) Factory {
	if m == nil {
		return f
	}
	return &instrumentedFactory{Factory: f, metrics: m}
}

type instrumentedFactory struct {
	Factory
	metrics *metrics.Registry
}

func (f *instrumentedFactory) NewCompressor() Compressor {
	return &instrumentedCompressor{
		Compressor: f.Factory.NewCompressor(),
		metrics:    f.metrics,
	}
}

type instrumentedCompressor struct {
	Compressor
	metrics *metrics.Registry
}

func (c *instrumentedCompressor) Compress(nodeID int64, targets []int64, properties [][]int64) (List, error) {
	list, err := c.Compressor.Compress(nodeID, targets, properties)
	if err != nil {
		return nil, err
	}
	strategy := list.Strategy().String()
	c.metrics.AdjacencyListsTotal.WithLabelValues(strategy).Inc()
	c.metrics.AdjacencyBytes.WithLabelValues(strategy).Add(float64(list.Bytes()))
	c.metrics.RelationshipsTotal.Add(float64(list.Degree()))
	return list, nil
}
