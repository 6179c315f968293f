package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"noticeboard/pkg/actor"
	actorapi "noticeboard/pkg/actor/api"
	"noticeboard/pkg/logger"
	"noticeboard/pkg/middleware"
	"noticeboard/pkg/post"
	postapi "noticeboard/pkg/post/api"
	"noticeboard/pkg/reaction"
	"noticeboard/pkg/role"
	"noticeboard/pkg/sessions"
)

type EnvConfig map[string]string

func init() {
	rand.Seed(time.Now().UnixNano())
}

func main() {
	var cfg EnvConfig = readDotenv()

	db, err := sql.Open("pgx", "postgresql://localhost/"+cfg["POSTGRES_DB"]+"?sslmode=disable")
	if err != nil {
		log.Printf("Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("unable to reach PostgreSQL: %v", err)
	}

	redisConn, err := redis.DialURL(cfg["REDIS_ADDR"])
	if err != nil {
		log.Fatalf("main: can't connect to Redis")
	}

	mongoCtx, mongoCtxCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer mongoCtxCancel()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg["MONGODB_URI"]))
	if err != nil {
		log.Fatalln("main: can't connect to MongoDB,", err)
	}
	if err := mongoClient.Ping(mongoCtx, nil); err != nil {
		log.Fatalln("main: unable to connect to MongoDB,", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(mongoCtx); err != nil {
			log.Fatalln("main: failed disconnecting from MongoDB, ", err)
		}
	}()

	postsDB := mongoClient.Database("noticeboard").Collection("posts")
	ledger := reaction.NewLedger(redisConn)
	postsRepo := post.NewPostRepo(postsDB, ledger)
	actorsRepo := actor.NewRepo(db)
	sessionManager := sessions.NewManager(cfg["SECRET_KEY"], redisConn)
	postHandler := postapi.NewPostHandler(postsRepo)
	actorHandler := actorapi.NewActorHandler(actorsRepo, sessionManager)

	r := mux.NewRouter()

	// Fixture actors and fake posts to have something on the board
	if cfg["SEED"] == "1" {
		seed(actorsRepo, postsRepo)
	}

	api := r.PathPrefix("/api").Subrouter()

	// Posts
	api.HandleFunc("/posts/", postHandler.List).Methods("GET")
	api.HandleFunc("/posts/pending",
		middleware.RequireRole(postHandler.Pending, role.SuperAdmin)).Methods("GET")
	api.HandleFunc("/posts",
		middleware.RequireRole(postHandler.Add, role.SuperAdmin, role.SubAdmin)).Methods("POST")
	api.HandleFunc("/post/{post_id}", postHandler.Get).Methods("GET")
	api.HandleFunc("/post/{post_id}/approve",
		middleware.RequireRole(postHandler.Approve, role.SuperAdmin)).Methods("POST")
	api.HandleFunc("/post/{post_id}",
		middleware.RequireRole(postHandler.Delete, role.SuperAdmin)).Methods("DELETE")
	// GET is kept for parity with the original front end
	api.HandleFunc("/post/{post_id}/like", middleware.RequireAuth(postHandler.Like)).Methods("GET")
	api.HandleFunc("/post/{post_id}/dislike", middleware.RequireAuth(postHandler.Dislike)).Methods("GET")

	// Comments
	api.HandleFunc("/post/{post_id}", middleware.RequireAuth(postHandler.AddComment)).Methods("POST")

	// Actors
	api.HandleFunc("/register", actorHandler.Register).Methods("POST")
	api.HandleFunc("/login", actorHandler.LogIn).Methods("POST")
	api.HandleFunc("/users",
		middleware.RequireRole(actorHandler.List, role.SuperAdmin)).Methods("GET")
	api.HandleFunc("/user/{user_id}",
		middleware.RequireRole(actorHandler.Delete, role.SuperAdmin)).Methods("DELETE")

	logMiddleware := middleware.NewLoggingMiddleware(logger.Run(cfg["LOG_LEVEL"]))
	r.Use(logMiddleware.SetupTracing)
	r.Use(logMiddleware.SetupLogging)
	r.Use(logMiddleware.AccessLog)

	auth := middleware.NewAuthMiddleware(sessionManager, actorsRepo)
	r.Use(auth.Middleware)

	addr := cfg["HTTP_ADDR"]
	if addr == "" {
		addr = ":8080"
	}
	log.Println("Serving at http://localhost" + addr + "/")
	log.Fatalln(http.ListenAndServe(addr, r))
}

func readDotenv() EnvConfig {
	env, err := godotenv.Read()
	if err != nil {
		log.Fatal("failed reading .env file:", err)
	}
	return env
}
