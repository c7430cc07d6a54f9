package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/sngm3741/facts-finders/api/internal/config"
	"github.com/sngm3741/facts-finders/api/internal/factsfinder/application"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/excel"
	mongodoc "github.com/sngm3741/facts-finders/api/internal/infrastructure/mongo"
	commonhttp "github.com/sngm3741/facts-finders/api/internal/interfaces/http/common"
	factsfinderhttp "github.com/sngm3741/facts-finders/api/internal/interfaces/http/factsfinder"
)

// Server は HTTP サーバーのライフサイクルを管理し、Facts Finder ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         *zap.SugaredLogger
	client         *mongo.Client
	database       *mongo.Database
	recordRepo     *mongodoc.RecordRepository
	commands       application.RecordCommandService
	queries        application.RecordQueryService
	formatter      application.WorkbookFormatter
	location       *time.Location
	addr           string
	allowedOrigins []string
	requestTimeout time.Duration
}

// Run はインデックスを用意してから HTTP サーバーを起動し、シグナルを受けるまでブロックする。
func (s *Server) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := s.recordRepo.EnsureIndexes(ctx); err != nil {
		s.logger.Warnw("インデックス作成に失敗しました", "error", err)
	}
	cancel()

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Infof("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	handler := factsfinderhttp.NewHandler(factsfinderhttp.Config{
		Logger:         s.logger,
		Commands:       s.commands,
		Queries:        s.queries,
		Formatter:      s.formatter,
		Location:       s.location,
		RequestTimeout: s.requestTimeout,
	})
	router.Route("/api", handler.Register)
	return router
}

// requestLogger はリクエスト 1 件ごとにメソッド・パス・ステータス・所要時間を記録する。
func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"requestId", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。空リストは全許可。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認のみを返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Warnf("MongoDB 切断時にエラー: %v", err)
	}
	_ = s.logger.Sync()
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を行う。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Errorf("サーバーが異常終了: %v", err)
			runErr = err
		}
	case sig := <-sigChan:
		srv.logger.Infof("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Warnf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
	return runErr
}

// loadLocation は TIMEZONE を読み込み、失敗時は IST の固定オフセットを返す。
func loadLocation(name string, logger *zap.SugaredLogger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnf("タイムゾーン %s の読み込みに失敗: %v, IST を使用します", name, err)
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// New は Config と Mongo クライアントを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client) *Server {
	loc := loadLocation(cfg.Timezone, cfg.ServerLog)

	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		database:       client.Database(cfg.MongoDatabase),
		location:       loc,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		requestTimeout: cfg.RequestTimeout,
		formatter:      excel.NewFormatter(loc),
	}

	srv.recordRepo = mongodoc.NewRecordRepository(srv.database, cfg.RecordCollection)
	srv.commands = application.NewRecordCommandService(srv.recordRepo, application.CommandOptions{
		Location: loc,
		Validate: cfg.ServerValidation,
	})
	srv.queries = application.NewRecordQueryService(srv.recordRepo)

	return srv
}
