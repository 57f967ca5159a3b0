/* main.go
 * The "main" method for running the pool. Wires the store, sports client, bot
 * and web server together and keeps the auto-settlement loop alive for the
 * life of the process.
 * Usage: go run main.go -addr=":8080" -dbname="group_bet"
 * Authors: Jamie Barkway
 */

package main

import (
	"context"
	"flag"
	"os"

	"github.com/JamieBarkway/group-bet/api/api"
	"github.com/JamieBarkway/group-bet/api/external"
	"github.com/JamieBarkway/group-bet/api/store"
	"github.com/JamieBarkway/group-bet/bot"
	"github.com/JamieBarkway/group-bet/web"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	addrPtr := flag.String("addr", ":8080", "Listen address for the REST server")
	dbNamePtr := flag.String("dbname", "group_bet", "Mongo database name")
	flag.Parse()

	zlog, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zlog.Sync()
	log := zlog.Sugar()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required but not set")
	}
	apiKey := os.Getenv("SPORTDB_API_KEY")
	if apiKey == "" {
		log.Fatal("SPORTDB_API_KEY is required but not set")
	}
	discordToken := os.Getenv("DISCORD_TOKEN")
	channelID := os.Getenv("DISCORD_CHANNEL_ID")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.NewStore(ctx, *dbNamePtr, mongoURI, log)
	if err != nil {
		log.Fatalw("failed to initialize store", "error", err)
	}
	defer func() {
		if err := st.Disconnect(context.Background()); err != nil {
			log.Errorw("store disconnect failed", "error", err)
		}
	}()

	client := external.NewClient(apiKey, external.DefaultLeagues, log)

	// the bot doubles as the notification sink once its session is open; with
	// no token the pool runs headless off the REST server and scheduler alone
	var groupBot *bot.Bot
	var sink api.Notifier
	if discordToken != "" {
		groupBot, err = bot.NewBot(discordToken, channelID, nil, log)
		if err != nil {
			log.Fatalw("failed to initialize bot", "error", err)
		}
		sink = groupBot
	} else {
		log.Info("DISCORD_TOKEN not set, running without the Discord bot")
	}

	poolAPI, err := api.NewAPI(st, client, sink, log)
	if err != nil {
		log.Fatalw("failed to initialize API", "error", err)
	}

	go poolAPI.StartAutoSettle(ctx)

	if groupBot == nil {
		if err := web.Start(web.Config{Addr: *addrPtr, API: poolAPI, Logger: log}); err != nil {
			log.Fatalw("http server stopped", "error", err)
		}
		return
	}

	groupBot.APIPtr = poolAPI

	go func() {
		if err := web.Start(web.Config{Addr: *addrPtr, API: poolAPI, Logger: log}); err != nil {
			log.Errorw("http server stopped", "error", err)
		}
	}()

	if err := groupBot.Run(); err != nil {
		log.Fatalw("bot stopped", "error", err)
	}
}
