// Package neural implements the feed-forward hospitalization classifier:
// two ReLU hidden layers with dropout, a sigmoid output, Adam updates,
// and binary cross-entropy loss. Training records per-epoch accuracy and
// loss for both the shuffled training portion and a fixed validation
// carve-out.
package neural

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Config holds the network hyperparameters.
type Config struct {
	Hidden1         int
	Hidden2         int
	Dropout1        float64
	Dropout2        float64
	LearningRate    float64
	Epochs          int
	BatchSize       int
	ValidationSplit float64
	Seed            int64
}

// DefaultConfig mirrors the reference network: 64/32 hidden units with
// 30%/20% dropout, Adam at its default rate, 50 epochs of batch 32 with
// a 20% validation carve-out.
func DefaultConfig() Config {
	return Config{
		Hidden1:         64,
		Hidden2:         32,
		Dropout1:        0.3,
		Dropout2:        0.2,
		LearningRate:    0.001,
		Epochs:          50,
		BatchSize:       32,
		ValidationSplit: 0.2,
		Seed:            42,
	}
}

// History holds per-epoch curves for plotting.
type History struct {
	TrainLoss []float64
	TrainAcc  []float64
	ValLoss   []float64
	ValAcc    []float64
}

// Network is the fitted model.
type Network struct {
	cfg      Config
	inputDim int

	w1, b1 *mat.Dense
	w2, b2 *mat.Dense
	w3, b3 *mat.Dense

	rng *rand.Rand
}

// New initializes a network for inputDim features with seeded He weight
// initialization.
func New(cfg Config, inputDim int) *Network {
	rng := rand.New(rand.NewSource(cfg.Seed))
	n := &Network{
		cfg:      cfg,
		inputDim: inputDim,
		w1:       heInit(inputDim, cfg.Hidden1, rng),
		b1:       mat.NewDense(1, cfg.Hidden1, nil),
		w2:       heInit(cfg.Hidden1, cfg.Hidden2, rng),
		b2:       mat.NewDense(1, cfg.Hidden2, nil),
		w3:       heInit(cfg.Hidden2, 1, rng),
		b3:       mat.NewDense(1, 1, nil),
		rng:      rng,
	}
	return n
}

func heInit(rows, cols int, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	scale := math.Sqrt(2 / float64(rows))
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return mat.NewDense(rows, cols, data)
}

// Fit trains for the configured number of epochs and returns the history.
// The validation carve-out is the trailing fraction of the provided rows
// and is excluded from weight updates; it monitors the curves only, so
// training always runs every epoch.
func (n *Network) Fit(X [][]float64, y []int) (*History, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("neural: empty training data")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("neural: %d feature rows for %d labels", len(X), len(y))
	}

	valLen := int(float64(len(X)) * n.cfg.ValidationSplit)
	trainLen := len(X) - valLen
	if trainLen == 0 {
		return nil, fmt.Errorf("neural: validation split leaves no training rows")
	}

	trainX, trainY := X[:trainLen], y[:trainLen]
	valX, valY := X[trainLen:], y[trainLen:]

	opt := newAdam(n.cfg.LearningRate, []*mat.Dense{n.w1, n.b1, n.w2, n.b2, n.w3, n.b3})

	history := &History{
		TrainLoss: make([]float64, 0, n.cfg.Epochs),
		TrainAcc:  make([]float64, 0, n.cfg.Epochs),
		ValLoss:   make([]float64, 0, n.cfg.Epochs),
		ValAcc:    make([]float64, 0, n.cfg.Epochs),
	}

	order := make([]int, trainLen)
	for i := range order {
		order[i] = i
	}

	for range n.cfg.Epochs {
		n.rng.Shuffle(len(order), func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})

		for start := 0; start < trainLen; start += n.cfg.BatchSize {
			end := start + n.cfg.BatchSize
			if end > trainLen {
				end = trainLen
			}
			batch := order[start:end]

			xb := gather(trainX, batch)
			yb := gatherLabels(trainY, batch)
			n.trainBatch(xb, yb, opt)
		}

		trainLoss, trainAcc := n.evaluate(trainX, trainY)
		history.TrainLoss = append(history.TrainLoss, trainLoss)
		history.TrainAcc = append(history.TrainAcc, trainAcc)

		if valLen > 0 {
			valLoss, valAcc := n.evaluate(valX, valY)
			history.ValLoss = append(history.ValLoss, valLoss)
			history.ValAcc = append(history.ValAcc, valAcc)
		}
	}

	return history, nil
}

// trainBatch runs one forward/backward pass with inverted dropout and
// applies the Adam updates.
func (n *Network) trainBatch(x *mat.Dense, y *mat.Dense, opt *adam) {
	rows, _ := x.Dims()

	z1 := affine(x, n.w1, n.b1)
	a1 := applyReLU(z1)
	m1 := n.dropoutMask(rows, n.cfg.Hidden1, n.cfg.Dropout1)
	a1.MulElem(a1, m1)

	z2 := affine(a1, n.w2, n.b2)
	a2 := applyReLU(z2)
	m2 := n.dropoutMask(rows, n.cfg.Hidden2, n.cfg.Dropout2)
	a2.MulElem(a2, m2)

	z3 := affine(a2, n.w3, n.b3)
	p := applySigmoid(z3)

	// dZ3 = (p - y) / batch
	dz3 := &mat.Dense{}
	dz3.Sub(p, y)
	dz3.Scale(1/float64(rows), dz3)

	dw3 := &mat.Dense{}
	dw3.Mul(a2.T(), dz3)
	db3 := colSums(dz3)

	da2 := &mat.Dense{}
	da2.Mul(dz3, n.w3.T())
	da2.MulElem(da2, m2)
	dz2 := reluBackward(da2, z2)

	dw2 := &mat.Dense{}
	dw2.Mul(a1.T(), dz2)
	db2 := colSums(dz2)

	da1 := &mat.Dense{}
	da1.Mul(dz2, n.w2.T())
	da1.MulElem(da1, m1)
	dz1 := reluBackward(da1, z1)

	dw1 := &mat.Dense{}
	dw1.Mul(x.T(), dz1)
	db1 := colSums(dz1)

	opt.step([]*mat.Dense{dw1, db1, dw2, db2, dw3, db3})
}

// dropoutMask builds an inverted-dropout mask: kept units are scaled by
// 1/(1-rate) so inference needs no rescaling.
func (n *Network) dropoutMask(rows, cols int, rate float64) *mat.Dense {
	mask := mat.NewDense(rows, cols, nil)
	if rate <= 0 {
		for r := range rows {
			for c := range cols {
				mask.Set(r, c, 1)
			}
		}
		return mask
	}
	keep := 1 - rate
	for r := range rows {
		for c := range cols {
			if n.rng.Float64() < keep {
				mask.Set(r, c, 1/keep)
			}
		}
	}
	return mask
}

// forward runs inference without dropout.
func (n *Network) forward(x *mat.Dense) *mat.Dense {
	a1 := applyReLU(affine(x, n.w1, n.b1))
	a2 := applyReLU(affine(a1, n.w2, n.b2))
	return applySigmoid(affine(a2, n.w3, n.b3))
}

// PredictProb returns the positive-class probability per row.
func (n *Network) PredictProb(X [][]float64) []float64 {
	p := n.forward(denseOf(X))
	rows, _ := p.Dims()
	out := make([]float64, rows)
	for i := range rows {
		out[i] = p.At(i, 0)
	}
	return out
}

// Predict thresholds the probabilities at 0.5.
func (n *Network) Predict(X [][]float64) []int {
	probs := n.PredictProb(X)
	out := make([]int, len(probs))
	for i, p := range probs {
		if p > 0.5 {
			out[i] = 1
		}
	}
	return out
}

// evaluate computes mean binary cross-entropy and accuracy.
func (n *Network) evaluate(X [][]float64, y []int) (loss, acc float64) {
	probs := n.PredictProb(X)
	const eps = 1e-7
	correct := 0
	for i, p := range probs {
		clipped := math.Min(math.Max(p, eps), 1-eps)
		if y[i] == 1 {
			loss += -math.Log(clipped)
		} else {
			loss += -math.Log(1 - clipped)
		}
		pred := 0
		if p > 0.5 {
			pred = 1
		}
		if pred == y[i] {
			correct++
		}
	}
	loss /= float64(len(probs))
	acc = float64(correct) / float64(len(probs))
	return loss, acc
}

// Matrix helpers.

func denseOf(X [][]float64) *mat.Dense {
	rows := len(X)
	cols := len(X[0])
	data := make([]float64, 0, rows*cols)
	for _, row := range X {
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data)
}

func gather(X [][]float64, indices []int) *mat.Dense {
	rows := make([][]float64, len(indices))
	for i, idx := range indices {
		rows[i] = X[idx]
	}
	return denseOf(rows)
}

func gatherLabels(y []int, indices []int) *mat.Dense {
	out := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		out.Set(i, 0, float64(y[idx]))
	}
	return out
}

// affine computes x*w + b with the bias row broadcast over the batch.
func affine(x, w, b *mat.Dense) *mat.Dense {
	out := &mat.Dense{}
	out.Mul(x, w)
	rows, cols := out.Dims()
	for r := range rows {
		for c := range cols {
			out.Set(r, c, out.At(r, c)+b.At(0, c))
		}
	}
	return out
}

func applyReLU(m *mat.Dense) *mat.Dense {
	out := &mat.Dense{}
	out.Apply(func(_, _ int, v float64) float64 {
		return math.Max(0, v)
	}, m)
	return out
}

func applySigmoid(m *mat.Dense) *mat.Dense {
	out := &mat.Dense{}
	out.Apply(func(_, _ int, v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	}, m)
	return out
}

// reluBackward zeroes gradient entries where the pre-activation was not
// positive.
func reluBackward(grad, z *mat.Dense) *mat.Dense {
	out := &mat.Dense{}
	out.Apply(func(r, c int, v float64) float64 {
		if z.At(r, c) > 0 {
			return v
		}
		return 0
	}, grad)
	return out
}

// colSums sums each column into a 1-row matrix.
func colSums(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(1, cols, nil)
	for c := range cols {
		var sum float64
		for r := range rows {
			sum += m.At(r, c)
		}
		out.Set(0, c, sum)
	}
	return out
}
