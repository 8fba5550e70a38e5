package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"tasklist/internal/db"
	"tasklist/internal/domain"
	"tasklist/internal/logger"
	"tasklist/internal/repository"
	"tasklist/internal/service"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Smoke test against a running server: user A watches the feed, A and B each
// create a task, and only A's task must show up on A's feed.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	base := "127.0.0.1:" + port

	pool := db.Connect(dsn)
	defer pool.Close()

	service.InitJWT()
	tokenA := tokenFor(pool, "smokeA")
	tokenB := tokenFor(pool, "smokeB")

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+base+"/ws?token="+tokenA, nil)
	if err != nil {
		logger.Fatal("dial feed", "error", err)
	}
	defer conn.Close()

	if ev := readEvent(conn); ev["type"] != "ready" {
		logger.Fatal("expected ready message", "got", ev)
	}

	createTask(base, tokenB, "smoke task from B")
	createTask(base, tokenA, "smoke task from A")

	ev := readEvent(conn)
	if ev["type"] != string(domain.TaskCreated) {
		logger.Fatal("unexpected event", "got", ev)
	}
	task, _ := ev["task"].(map[string]any)
	if task["task"] != "smoke task from A" {
		logger.Fatal("feed leaked another user's task", "got", task)
	}

	logger.Info("smoke test finished", "event", ev)
}

func tokenFor(pool *pgxpool.Pool, name string) string {
	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	u, err := repo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrUserNotFound) {
		u = &domain.User{Name: name}
		err = repo.Create(ctx, u)
	}
	if err != nil {
		logger.Fatal("prepare user", "name", name, "error", err)
	}

	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		logger.Fatal("generate token", "name", name, "error", err)
	}
	return token
}

func createTask(base, token, text string) {
	body, _ := json.Marshal(map[string]string{"task": text})
	req, err := http.NewRequest(http.MethodPost, "http://"+base+"/tasks", bytes.NewReader(body))
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("create task", "error", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		logger.Fatal("create task", "status", res.StatusCode)
	}
}

func readEvent(conn *websocket.Conn) map[string]any {
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		logger.Fatal("read feed", "error", err)
	}
	var ev map[string]any
	if err := json.Unmarshal(msg, &ev); err != nil {
		logger.Fatal("decode feed message", "error", err, "raw", fmt.Sprintf("%q", msg))
	}
	return ev
}
