package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// adam applies adaptive moment estimation updates to a fixed parameter
// list. Gradients passed to step must match that list's order and
// shapes.
type adam struct {
	params []*mat.Dense
	m      []*mat.Dense
	v      []*mat.Dense

	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int
}

func newAdam(lr float64, params []*mat.Dense) *adam {
	a := &adam{
		params: params,
		m:      make([]*mat.Dense, len(params)),
		v:      make([]*mat.Dense, len(params)),
		lr:     lr,
		beta1:  0.9,
		beta2:  0.999,
		eps:    1e-8,
	}
	for i, p := range params {
		rows, cols := p.Dims()
		a.m[i] = mat.NewDense(rows, cols, nil)
		a.v[i] = mat.NewDense(rows, cols, nil)
	}
	return a
}

func (a *adam) step(grads []*mat.Dense) {
	a.t++
	mCorr := 1 - math.Pow(a.beta1, float64(a.t))
	vCorr := 1 - math.Pow(a.beta2, float64(a.t))

	for i, p := range a.params {
		grad := grads[i]
		m := a.m[i]
		v := a.v[i]

		rows, cols := p.Dims()
		for r := range rows {
			for c := range cols {
				g := grad.At(r, c)
				mNew := a.beta1*m.At(r, c) + (1-a.beta1)*g
				vNew := a.beta2*v.At(r, c) + (1-a.beta2)*g*g
				m.Set(r, c, mNew)
				v.Set(r, c, vNew)

				mHat := mNew / mCorr
				vHat := vNew / vCorr
				p.Set(r, c, p.At(r, c)-a.lr*mHat/(math.Sqrt(vHat)+a.eps))
			}
		}
	}
}
