// Command train generates the synthetic learner dataset, fits the difficulty
// classifier and writes roadmap_model.json and scaler.json.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/pathwise/internal/domain/scaler"
	"github.com/okian/pathwise/internal/training"
	"github.com/okian/pathwise/pkg/logger"
)

func main() {
	var (
		samples   = flag.Int("samples", training.DefaultSamples, "Number of synthetic samples")
		epochs    = flag.Int("epochs", training.DefaultEpochs, "Training epochs")
		batchSize = flag.Int("batch-size", training.DefaultBatchSize, "Mini-batch size")
		lr        = flag.Float64("lr", training.DefaultLR, "Adam learning rate")
		seed      = flag.Int64("seed", training.DefaultSeed, "Random seed")
		outDir    = flag.String("out-dir", ".", "Directory for the model and scaler artifacts")
		baseline  = flag.Bool("baseline", false, "Write the closed-form baseline network with an identity scaler instead of training")
		logFormat = flag.String("log-format", logger.FormatText, "Log format: text or json")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("train")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *baseline {
		a, err := training.WriteArtifacts(*outDir, training.Baseline(), scaler.Identity())
		if err != nil {
			log.Fatal(ctx, "failed to write baseline artifacts", logger.Error(err))
		}
		log.Info(ctx, "baseline artifacts written",
			logger.String("model", a.ModelPath),
			logger.String("scaler", a.ScalerPath),
		)
		return
	}

	data := training.Generate(*samples, *seed)
	trainer := training.NewTrainer(
		training.WithEpochs(*epochs),
		training.WithBatchSize(*batchSize),
		training.WithLearningRate(*lr),
		training.WithSeed(*seed),
		training.WithLogger(log),
	)
	res, err := trainer.Train(ctx, data)
	if err != nil {
		log.Fatal(ctx, "training failed", logger.Error(err))
	}

	a, err := training.WriteArtifacts(*outDir, res.Network, res.Scaler)
	if err != nil {
		log.Fatal(ctx, "failed to write artifacts", logger.Error(err))
	}
	log.Info(ctx, "training complete",
		logger.String("model", a.ModelPath),
		logger.String("scaler", a.ScalerPath),
		logger.Float64("best_val_acc", res.BestValAccuracy),
	)
}
