package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"jobhelper/internal/config"
	"jobhelper/internal/database"
	"jobhelper/internal/service"
)

func main() {
	var (
		email  = flag.String("email", "", "用户邮箱（必填）")
		remove = flag.Bool("delete", false, "删除该邮箱对应的账号（默认是创建）")
		dbHost = flag.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
		dbPort = flag.Int("db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
		dbName = flag.String("db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
		dbUser = flag.String("db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
		dbPass = flag.String("db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
		ssl    = flag.String("db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")
	)
	flag.Parse()

	addr := strings.TrimSpace(*email)
	if addr == "" {
		log.Fatal("missing required flag: --email")
	}

	dbCfg, err := loadDatabaseConfig(*dbHost, *dbPort, *dbName, *dbUser, *dbPass, *ssl)
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	users := service.NewUserService(db, logger)
	ctx := context.Background()

	if *remove {
		user, err := users.GetByEmail(ctx, addr)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				log.Fatalf("user %q does not exist", addr)
			}
			log.Fatalf("query user: %v", err)
		}
		found, err := users.Delete(ctx, user.ID)
		if err != nil {
			log.Fatalf("delete user: %v", err)
		}
		if !found {
			log.Fatalf("user %q does not exist", addr)
		}
		fmt.Printf("已删除账号 %s（简历与测验已级联删除）\n", user.Email)
		return
	}

	user, err := users.Create(ctx, addr)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			log.Fatal("email must not be blank")
		case errors.Is(err, service.ErrEmailTaken):
			log.Fatalf("user %q already exists", addr)
		default:
			log.Fatalf("create user: %v", err)
		}
	}

	fmt.Printf("已创建账号：\n")
	fmt.Printf("ID: %s\n", user.ID)
	fmt.Printf("邮箱: %s\n", user.Email)
}

func loadDatabaseConfig(host string, port int, name, user, password, sslmode string) (config.DatabaseConfig, error) {
	if strings.TrimSpace(host) == "" {
		host = os.Getenv("DATABASE_HOST")
	}
	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("POSTGRES_DB")
	}
	if strings.TrimSpace(user) == "" {
		user = os.Getenv("POSTGRES_USER")
	}
	if strings.TrimSpace(password) == "" {
		password = os.Getenv("POSTGRES_PASSWORD")
	}
	if strings.TrimSpace(sslmode) == "" {
		sslmode = os.Getenv("DATABASE_SSLMODE")
	}

	if strings.TrimSpace(host) == "" {
		host = "localhost"
	}
	if port <= 0 {
		port = 5432
	}
	if strings.TrimSpace(sslmode) == "" {
		sslmode = "disable"
	}
	if strings.TrimSpace(name) == "" {
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	}
	if strings.TrimSpace(user) == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	}
	if strings.TrimSpace(password) == "" {
		return config.DatabaseConfig{}, errors.New("database password is required (POSTGRES_PASSWORD)")
	}

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: password,
		SSLMode:  sslmode,
	}, nil
}
