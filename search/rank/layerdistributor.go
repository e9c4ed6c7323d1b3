package rank

import "github.com/weizijun/havenask/search"

// LayerRangeDistributor walks a request's layers in order, carrying unused
// quota forward from underproducing layers and trimming later layers once
// the running estimate already satisfies rankSize (spec.md §4.1 step 2,
// §4.5).
type LayerRangeDistributor struct {
	layers    []search.LayerMeta
	rankSize  int
	idx       int
	leftQuota int
	estimator *ResultEstimator
}

// NewLayerRangeDistributor builds a distributor over layers for a request
// wanting rankSize total survivors, backed by estimator for residual-quota
// projection.
func NewLayerRangeDistributor(layers []search.LayerMeta, rankSize int, estimator *ResultEstimator) *LayerRangeDistributor {
	return &LayerRangeDistributor{layers: layers, rankSize: rankSize, estimator: estimator}
}

// HasNextLayer reports whether there is another layer to search.
func (d *LayerRangeDistributor) HasNextLayer() bool {
	return d.idx < len(d.layers)
}

// GetCurLayer returns the current layer's index, its LayerMeta, and the
// quota it should be searched with: its own configured quota plus any
// quota rolled forward from prior underproducing layers, capped by the
// residual need against rankSize once earlier layers' observed yield is
// taken into account.
func (d *LayerRangeDistributor) GetCurLayer() (layerIndex int, meta search.LayerMeta, quota int) {
	meta = d.layers[d.idx]
	quota = meta.Quota + d.leftQuota

	residual := d.rankSize - int(d.estimator.TotalMatchCount())
	if residual < 0 {
		residual = 0
	}
	if quota > residual {
		quota = residual
	}
	return d.idx, meta, quota
}

// MoveToNextLayer advances past the current layer, carrying leftQuota
// (typically: this layer's quota minus what it actually seeked) forward so
// a later layer may use it.
func (d *LayerRangeDistributor) MoveToNextLayer(leftQuota int) {
	d.idx++
	if leftQuota < 0 {
		leftQuota = 0
	}
	d.leftQuota = leftQuota
}
