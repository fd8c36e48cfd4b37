package classifier

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Synthetic training parameters. The seed is fixed so training is
// reproducible: every process that trains gets the same weights.
const (
	trainSeed    = 42
	sampleCount  = 1000
	featureCount = 4

	maxIterations = 30
	stepTolerance = 1e-10
	ridge         = 1e-6
)

// TrainSynthetic trains a logistic regression on the synthetic moderation
// dataset: 1000 uniform samples over 4 features, labeled a violation when
// feature0 < 0.3 and feature1 < 0.2.
func TrainSynthetic() *LogisticRegression {
	rng := rand.New(rand.NewSource(trainSeed))

	data := make([]float64, sampleCount*featureCount)
	for i := range data {
		data[i] = rng.Float64()
	}
	x := mat.NewDense(sampleCount, featureCount, data)

	y := make([]float64, sampleCount)
	for i := 0; i < sampleCount; i++ {
		if x.At(i, 0) < 0.3 && x.At(i, 1) < 0.2 {
			y[i] = 1.0
		}
	}

	return fit(x, y)
}

// fit computes the maximum-likelihood weights by iteratively reweighted
// least squares (Newton's method). The Newton step converges in a handful
// of iterations where plain gradient descent would need tens of thousands
// of epochs to push in-region points past the 0.5 boundary.
func fit(x *mat.Dense, y []float64) *LogisticRegression {
	n, d := x.Dims()

	// Design matrix with an intercept column so the bias is part of the
	// Newton update.
	xb := mat.NewDense(n, d+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			xb.Set(i, j, x.At(i, j))
		}
		xb.Set(i, d, 1.0)
	}

	beta := mat.NewVecDense(d+1, nil)
	z := mat.NewVecDense(n, nil)
	residual := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d+1, nil)
	weighted := mat.NewDense(n, d+1, nil)
	hessian := mat.NewDense(d+1, d+1, nil)
	step := mat.NewVecDense(d+1, nil)

	for iter := 0; iter < maxIterations; iter++ {
		z.MulVec(xb, beta)

		for i := 0; i < n; i++ {
			p := sigmoid(z.AtVec(i))
			residual.SetVec(i, y[i]-p)

			// Working weights, floored so saturated points cannot
			// collapse the Hessian.
			w := p * (1 - p)
			if w < 1e-10 {
				w = 1e-10
			}
			for j := 0; j <= d; j++ {
				weighted.Set(i, j, w*xb.At(i, j))
			}
		}

		grad.MulVec(xb.T(), residual)
		hessian.Mul(weighted.T(), xb)
		for j := 0; j <= d; j++ {
			hessian.Set(j, j, hessian.At(j, j)+ridge)
		}

		if err := step.SolveVec(hessian, grad); err != nil {
			break
		}
		beta.AddVec(beta, step)

		if mat.Norm(step, 2) < stepTolerance {
			break
		}
	}

	weights := make([]float64, d)
	copy(weights, beta.RawVector().Data[:d])

	return &LogisticRegression{Weights: weights, Bias: beta.AtVec(d)}
}
