package main

import (
	"context"
	"log/slog"
	"time"

	"radiocode-go/bus"
	"radiocode-go/services/config"
	"radiocode-go/services/display"
	"radiocode-go/services/radio"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	brd := setupBoard()
	log := slog.New(slog.NewTextHandler(brd.console, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx := config.WithDevice(context.Background(), brd.device)
	b := bus.NewBus(8)

	config.NewConfigService(log).Start(ctx, b.NewConnection("config"))
	radio.New(b.NewConnection("radio"), brd.radio, brd.power, radio.Options{Logger: log}).Start(ctx)
	_ = display.New(brd.panel, log).Start(ctx, b.NewConnection("display"))

	// Report radio state changes on the console.
	mon := b.NewConnection("main")
	sub := mon.Subscribe(bus.T("radio", "state"))
	for m := range sub.Channel() {
		log.Info("radio state", slog.Any("state", m.Payload))
	}
}
