// Package main 运维管理 CLI 入口（adminctl）
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"scribe-ai-api/internal/config"
	"scribe-ai-api/internal/domain/entity"
	"scribe-ai-api/internal/domain/repository"
	"scribe-ai-api/internal/wire"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "服务运维管理工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newUsersCmd())
	return root
}

// withDataLayer 初始化数据层并执行命令体
func withDataLayer(fn func(ctx context.Context, dl *wire.PostgresOnlyDataLayer) error) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	dl, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize data layer: %w", err)
	}
	defer cleanup()

	return fn(ctx, dl)
}

func newUsersCmd() *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "用户管理",
	}
	users.AddCommand(
		newUsersListCmd(),
		newUsersInfoCmd(),
		newUsersDeleteCmd(),
		newUsersResetPasswordCmd(),
		newUsersToggleActiveCmd(),
		newUsersMakeAdminCmd(),
	)
	return users
}

func newUsersListCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "分页列出用户",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDataLayer(func(ctx context.Context, dl *wire.PostgresOnlyDataLayer) error {
				result, err := dl.UserRepo.List(ctx, repository.NewPagination(page, pageSize))
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE\tCREATED")
				for _, u := range result.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
						u.ID, u.Email, u.Name, u.Role, u.IsActive, u.CreatedAt.Format("2006-01-02 15:04"))
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "total: %d (page %d/%d)\n",
					result.Total, result.Page, (result.Total+int64(result.PageSize)-1)/int64(result.PageSize))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "页码")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "每页条数")
	return cmd
}

func newUsersInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <email|id>",
		Short: "查看用户详情",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDataLayer(func(ctx context.Context, dl *wire.PostgresOnlyDataLayer) error {
				user, err := findUser(ctx, dl, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:         %s\n", user.ID)
				fmt.Fprintf(out, "Email:      %s\n", user.Email)
				fmt.Fprintf(out, "Name:       %s\n", user.Name)
				fmt.Fprintf(out, "Role:       %s\n", user.Role)
				fmt.Fprintf(out, "Active:     %t\n", user.IsActive)
				if user.LastLoginAt != nil {
					fmt.Fprintf(out, "Last login: %s\n", user.LastLoginAt.Format("2006-01-02 15:04:05"))
				}
				fmt.Fprintf(out, "Created:    %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}
}

func newUsersDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <email|id>",
		Short: "删除用户",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDataLayer(func(ctx context.Context, dl *wire.PostgresOnlyDataLayer) error {
				user, err := findUser(ctx, dl, args[0])
				if err != nil {
					return err
				}
				if !yes {
					return fmt.Errorf("refusing to delete %s without --yes", user.Email)
				}
				if err := dl.UserRepo.Delete(ctx, user.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s deleted\n", user.Email)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "确认删除")
	return cmd
}

func newUsersResetPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset-password <email|id>",
		Short: "重置用户密码",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			return withDataLayer(func(ctx context.Context, dl *wire.PostgresOnlyDataLayer) error {
				user, err := findUser(ctx, dl, args[0])
				if err != nil {
					return err
				}
				if err := user.SetPassword(password); err != nil {
					return err
				}
				if err := dl.UserRepo.Update(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password for %s reset\n", user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "新密码")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersToggleActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-active <email|id>",
		Short: "启用/停用用户",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDataLayer(func(ctx context.Context, dl *wire.PostgresOnlyDataLayer) error {
				user, err := findUser(ctx, dl, args[0])
				if err != nil {
					return err
				}
				user.IsActive = !user.IsActive
				if err := dl.UserRepo.Update(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s active=%t\n", user.Email, user.IsActive)
				return nil
			})
		},
	}
}

func newUsersMakeAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make-admin <email|id>",
		Short: "授予管理员角色",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDataLayer(func(ctx context.Context, dl *wire.PostgresOnlyDataLayer) error {
				user, err := findUser(ctx, dl, args[0])
				if err != nil {
					return err
				}
				if user.Role == entity.UserRoleAdmin {
					fmt.Fprintf(cmd.OutOrStdout(), "user %s is already an admin\n", user.Email)
					return nil
				}
				user.Role = entity.UserRoleAdmin
				if err := dl.UserRepo.Update(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s is now an admin\n", user.Email)
				return nil
			})
		},
	}
}

// findUser 按邮箱或 ID 查找用户
func findUser(ctx context.Context, dl *wire.PostgresOnlyDataLayer, key string) (*entity.User, error) {
	var user *entity.User
	var err error
	if strings.Contains(key, "@") {
		user, err = dl.UserRepo.GetByEmail(ctx, strings.ToLower(key))
	} else {
		user, err = dl.UserRepo.GetByID(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %s", key)
	}
	return user, nil
}
