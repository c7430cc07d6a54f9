package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/facts-finders/api/internal/config"
	mongodoc "github.com/sngm3741/facts-finders/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	count          int
	days           int
	dropCollection bool
	randomSeed     int64
}

func main() {
	opts := parseFlags()
	cfg := config.Load()
	logger := cfg.ServerLog.Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)

	if opts.dropCollection {
		// Drop は存在しない場合も err を返すので warning ログにとどめる
		if err := db.Collection(cfg.RecordCollection).Drop(ctx); err != nil {
			logger.Warnf("コレクション %s の削除に失敗: %v", cfg.RecordCollection, err)
		} else {
			logger.Infof("既存コレクション %s を削除しました", cfg.RecordCollection)
		}
	}

	repo := mongodoc.NewRecordRepository(db, cfg.RecordCollection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	rng := rand.New(rand.NewSource(opts.randomSeed))
	records := generateRecords(rng, opts.count, opts.days, time.Now().In(loc))

	for i := range records {
		if err := repo.Insert(ctx, &records[i]); err != nil {
			logger.Fatalf("レコード %d の挿入に失敗しました: %v", i+1, err)
		}
	}

	if len(records) > 0 {
		if _, err := repo.FindByID(ctx, records[0].ID); err != nil {
			logger.Fatalf("挿入済みレコードの読み戻しに失敗しました: %v", err)
		}
	}

	logger.Infof("Seed 完了: records=%d seed=%d", len(records), opts.randomSeed)
	logger.Infof("Mongo: %s / %s", cfg.MongoDatabase, cfg.RecordCollection)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.IntVar(&opts.count, "count", 50, "生成するレコード数")
	flag.IntVar(&opts.days, "days", 365, "dateTime を分散させる過去日数")
	flag.BoolVar(&opts.dropCollection, "drop", false, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.count < 0 {
		opts.count = 0
	}
	if opts.days <= 0 {
		opts.days = 1
	}
	return opts
}
