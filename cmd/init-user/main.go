package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/menu"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/role"
)

type Config struct {
	DatabaseConfig           config.DatabaseConfig
	PasswordComplexityConfig config.PasswordComplexityConfig
}

func main() {
	loginName := flag.String("login-name", "", "Login name for the new user (required)")
	pwd := flag.String("password", "", "Password for the new user (required)")
	roleName := flag.String("role", "", "Role to assign to the user (required)")
	roleKey := flag.String("role-key", "", "Role key to use when the role has to be created")
	flag.Parse()

	if *loginName == "" || *pwd == "" || *roleName == "" {
		fmt.Println("Error: login-name, password, and role are required")
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	dbConfig := cfg.DatabaseConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(1)
	}

	credentialManager := password.NewCredentialManager().
		WithPolicy(cfg.PasswordComplexityConfig.ToPasswordPolicy())

	roleService := role.NewRoleService(role.NewPostgresRoleRepository(pool))
	accountService := account.NewAccountService(
		account.NewPostgresAccountRepository(pool),
		roleService,
		menu.NewPostgresPermissionLookup(pool),
		account.WithCredentialManager(credentialManager),
	)

	ctx := context.Background()

	// Find the role by name, creating it when missing
	roles, err := roleService.FindRoles(ctx)
	if err != nil {
		slog.Error("Failed to fetch roles", "error", err)
		os.Exit(1)
	}

	var roleID uuid.UUID
	roleFound := false
	for _, r := range roles {
		if r.Name == *roleName {
			roleID = r.ID
			roleFound = true
			break
		}
	}

	if !roleFound {
		slog.Info("Role not found, creating new role", "role", *roleName)
		created, err := roleService.CreateRole(ctx, *roleName, *roleKey)
		if err != nil {
			slog.Error("Failed to create role", "error", err)
			os.Exit(1)
		}
		roleID = created.ID
		slog.Info("Role created successfully", "role", *roleName, "id", roleID)
	} else {
		slog.Info("Using existing role", "role", *roleName, "id", roleID)
	}

	slog.Info("Creating user", "login_name", *loginName)
	user, err := accountService.CreateUser(ctx, account.CreateUserRequest{
		LoginName: *loginName,
		Password:  *pwd,
		RoleIDs:   []uuid.UUID{roleID},
	})
	if err != nil {
		slog.Error("Failed to create user", "error", err)
		os.Exit(1)
	}

	slog.Info("User created successfully", "login_name", *loginName, "role", *roleName, "user_id", user.ID)
}
