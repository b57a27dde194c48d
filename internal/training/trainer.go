package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/pathwise/internal/domain/classifier"
	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/scaler"
	"github.com/okian/pathwise/pkg/logger"
)

// Adam hyperparameters.
const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8

	minProb = 1e-12
)

// Result is the outcome of a training run.
type Result struct {
	Network         *classifier.Network
	Scaler          *scaler.Scaler
	TrainLoss       []float64
	ValLoss         float64
	ValAccuracy     float64
	BestValAccuracy float64
}

// Trainer fits the classifier with mini-batch Adam on softmax cross-entropy.
type Trainer struct {
	epochs    int
	batchSize int
	lr        float64
	seed      int64
	valRatio  float64
	logger    logger.Logger
}

// NewTrainer creates a trainer with configuration options.
func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{
		epochs:    DefaultEpochs,
		batchSize: DefaultBatchSize,
		lr:        DefaultLR,
		seed:      DefaultSeed,
		valRatio:  DefaultValRatio,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Train splits samples, fits the scaler on the training split and trains a
// freshly initialized network. ctx is checked between epochs.
func (t *Trainer) Train(ctx context.Context, samples []Sample) (*Result, error) {
	if len(samples) < 2 {
		return nil, ErrEmptyDataset
	}
	train, val := Split(samples, t.valRatio, t.seed)

	sc, err := FitScaler(train)
	if err != nil {
		return nil, err
	}
	trainX := normalizeAll(sc, train)
	valX := normalizeAll(sc, val)

	rng := rand.New(rand.NewSource(t.seed)) //nolint:gosec // reproducible training
	net := initNetwork(rng)
	opt := newAdam(net, t.lr)
	g := newGrads(net)

	res := &Result{Network: net, Scaler: sc}
	order := make([]int, len(train))
	for i := range order {
		order[i] = i
	}

	for epoch := 1; epoch <= t.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training interrupted: %w", err)
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var total float64
		for start := 0; start < len(order); start += t.batchSize {
			end := min(start+t.batchSize, len(order))
			g.zero()
			for _, idx := range order[start:end] {
				total += backward(net, g, trainX[idx], train[idx].Y, float64(end-start))
			}
			opt.step(g)
		}
		loss := total / float64(len(order))
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, fmt.Errorf("%w at epoch %d", ErrDiverged, epoch)
		}
		res.TrainLoss = append(res.TrainLoss, loss)

		res.ValLoss, res.ValAccuracy = evaluate(net, valX, val)
		res.BestValAccuracy = math.Max(res.BestValAccuracy, res.ValAccuracy)
		if epoch == 1 || epoch%10 == 0 {
			t.logger.Info(ctx, "epoch finished",
				logger.Int("epoch", epoch),
				logger.Float64("train_loss", loss),
				logger.Float64("val_loss", res.ValLoss),
				logger.Float64("val_acc", res.ValAccuracy),
			)
		}
	}
	return res, nil
}

func normalizeAll(sc *scaler.Scaler, samples []Sample) [][model.NumFeatures]float64 {
	out := make([][model.NumFeatures]float64, len(samples))
	for i, s := range samples {
		out[i] = sc.Normalize(s.X)
	}
	return out
}

// initNetwork draws weights and biases from U(-1/sqrt(in), 1/sqrt(in)).
func initNetwork(rng *rand.Rand) *classifier.Network {
	n := classifier.NewNetwork()
	for _, l := range []*classifier.Dense{&n.FC1, &n.FC2, &n.FC3} {
		bound := 1 / math.Sqrt(float64(l.In))
		for i := range l.Weight {
			l.Weight[i] = (rng.Float64()*2 - 1) * bound
		}
		for i := range l.Bias {
			l.Bias[i] = (rng.Float64()*2 - 1) * bound
		}
	}
	return n
}

func evaluate(net *classifier.Network, xs [][model.NumFeatures]float64, samples []Sample) (loss, acc float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	correct := 0
	for i, s := range samples {
		probs := classifier.Softmax(net.Logits(xs[i]))
		loss -= math.Log(math.Max(probs[s.Y], minProb))
		if model.Tier(classifier.Argmax(probs)) == s.Y {
			correct++
		}
	}
	n := float64(len(samples))
	return loss / n, float64(correct) / n
}

// grads mirrors the network parameters.
type grads struct {
	params [6][]float64
}

func newGrads(n *classifier.Network) *grads {
	g := &grads{}
	for i, p := range paramsOf(n) {
		g.params[i] = make([]float64, len(p))
	}
	return g
}

func (g *grads) zero() {
	for _, p := range g.params {
		clear(p)
	}
}

func paramsOf(n *classifier.Network) [6][]float64 {
	return [6][]float64{
		n.FC1.Weight, n.FC1.Bias,
		n.FC2.Weight, n.FC2.Bias,
		n.FC3.Weight, n.FC3.Bias,
	}
}

// backward accumulates the gradient of the mean batch loss for one sample
// into g and returns the sample loss.
func backward(n *classifier.Network, g *grads, x [model.NumFeatures]float64, y model.Tier, batch float64) float64 {
	var z1, h1 [classifier.Hidden1]float64
	var z2, h2 [classifier.Hidden2]float64
	var logits [model.NumTiers]float64

	n.FC1.Apply(x[:], z1[:], false)
	for i, v := range z1 {
		h1[i] = math.Max(v, 0)
	}
	n.FC2.Apply(h1[:], z2[:], false)
	for i, v := range z2 {
		h2[i] = math.Max(v, 0)
	}
	n.FC3.Apply(h2[:], logits[:], false)
	probs := classifier.Softmax(logits)

	var dLogits [model.NumTiers]float64
	for i, p := range probs {
		dLogits[i] = p / batch
	}
	dLogits[y] -= 1 / batch

	gW3, gB3 := g.params[4], g.params[5]
	var dH2 [classifier.Hidden2]float64
	for i, d := range dLogits {
		gB3[i] += d
		row := n.FC3.Weight[i*n.FC3.In : (i+1)*n.FC3.In]
		for j := range h2 {
			gW3[i*n.FC3.In+j] += d * h2[j]
			dH2[j] += row[j] * d
		}
	}

	gW2, gB2 := g.params[2], g.params[3]
	var dH1 [classifier.Hidden1]float64
	for i := range dH2 {
		if z2[i] <= 0 {
			continue
		}
		d := dH2[i]
		gB2[i] += d
		row := n.FC2.Weight[i*n.FC2.In : (i+1)*n.FC2.In]
		for j := range h1 {
			gW2[i*n.FC2.In+j] += d * h1[j]
			dH1[j] += row[j] * d
		}
	}

	gW1, gB1 := g.params[0], g.params[1]
	for i := range dH1 {
		if z1[i] <= 0 {
			continue
		}
		d := dH1[i]
		gB1[i] += d
		for j := range x {
			gW1[i*n.FC1.In+j] += d * x[j]
		}
	}

	return -math.Log(math.Max(probs[y], minProb))
}

// adam holds first and second moment estimates per parameter.
type adam struct {
	params [6][]float64
	m, v   [6][]float64
	lr     float64
	t      int
}

func newAdam(n *classifier.Network, lr float64) *adam {
	a := &adam{params: paramsOf(n), lr: lr}
	for i, p := range a.params {
		a.m[i] = make([]float64, len(p))
		a.v[i] = make([]float64, len(p))
	}
	return a
}

func (a *adam) step(g *grads) {
	a.t++
	c1 := 1 - math.Pow(adamBeta1, float64(a.t))
	c2 := 1 - math.Pow(adamBeta2, float64(a.t))
	for i, p := range a.params {
		m, v, gr := a.m[i], a.v[i], g.params[i]
		for j := range p {
			m[j] = adamBeta1*m[j] + (1-adamBeta1)*gr[j]
			v[j] = adamBeta2*v[j] + (1-adamBeta2)*gr[j]*gr[j]
			p[j] -= a.lr * (m[j] / c1) / (math.Sqrt(v[j]/c2) + adamEps)
		}
	}
}
