package evaluation

import (
	"cmp"
	"slices"

	"github.com/docscanhq/docscan/internal/detection"
	"github.com/docscanhq/docscan/pkg/geometry"
)

// Counts tallies matches for one category. TP+FN always equals the number of
// ground-truth boxes and TP+FP the number of predictions.
type Counts struct {
	TP int
	FP int
	FN int
}

// Add accumulates another tally into this one.
func (c *Counts) Add(other Counts) {
	c.TP += other.TP
	c.FP += other.FP
	c.FN += other.FN
}

// Support is the number of ground-truth boxes behind the tally.
func (c Counts) Support() int {
	return c.TP + c.FN
}

// Precision is TP over all predictions, zero when there were none.
func (c Counts) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// Recall is TP over all ground-truth boxes, zero when there were none.
func (c Counts) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// F1 is the harmonic mean of precision and recall, zero when both are zero.
func (c Counts) F1() float64 {
	p := c.Precision()
	r := c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// MatchGreedy scores predictions against ground truth at the IoU threshold.
// Predictions are visited in descending confidence order, ties keeping their
// input order, and each claims the unmatched ground-truth box it overlaps
// best. A claim below the threshold is a false positive; ground-truth boxes
// left unclaimed are false negatives. Every box matches at most once.
func MatchGreedy(groundTruth []geometry.Box, predictions []detection.Box, iouThreshold float64) Counts {
	ordered := slices.Clone(predictions)
	slices.SortStableFunc(ordered, func(a, b detection.Box) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	matched := make(map[int]struct{}, len(groundTruth))
	var counts Counts

	for _, pred := range ordered {
		bestIoU := 0.0
		bestIdx := -1
		for idx, gt := range groundTruth {
			if _, taken := matched[idx]; taken {
				continue
			}
			if iou := geometry.IoU(pred.Bounds, gt); iou > bestIoU {
				bestIoU = iou
				bestIdx = idx
			}
		}
		if bestIdx >= 0 && bestIoU >= iouThreshold {
			matched[bestIdx] = struct{}{}
			counts.TP++
		} else {
			counts.FP++
		}
	}

	counts.FN = len(groundTruth) - len(matched)
	return counts
}
