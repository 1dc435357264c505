package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/adh/internal/credential"
	"github.com/jbweber/homelab/adh/internal/domain"
	"github.com/jbweber/homelab/adh/internal/repository"
)

func newMemberCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage network members",
	}

	var m domain.Member
	var password string
	add := &cobra.Command{
		Use:   "add <login>",
		Short: "Register a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := openDatastore(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer ds.Close()
			out := newPrinter(cmd.OutOrStdout())

			m.Login = args[0]
			if password != "" {
				m.Password, err = credential.HashPassword(password)
				if err != nil {
					return fmt.Errorf("hashing password: %w", err)
				}
			} else {
				out.Warning("no password set for %s", m.Login)
			}

			repo := repository.NewMemberRepository(ds.DB)
			defer repo.Close()
			saved, err := repo.Save(cmd.Context(), m)
			if err != nil {
				return err
			}
			out.Success("member %s created with id %d", saved.Login, saved.ID)
			return nil
		},
	}
	add.Flags().StringVar(&m.Name, "name", "", "Family name")
	add.Flags().StringVar(&m.FirstName, "first-name", "", "Given name")
	add.Flags().StringVar(&m.Email, "email", "", "Contact email")
	add.Flags().StringVar(&password, "password", "", "Initial password, stored as an Argon2id hash")

	list := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, ds, err := openDatastore(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer ds.Close()

			repo := repository.NewMemberRepository(ds.DB)
			defer repo.Close()
			members, err := repo.FindAll(cmd.Context())
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout())
			out.Info("%d member(s)", len(members))
			for _, m := range members {
				out.Row("%-6d %-20s %s %s <%s>", m.ID, m.Login, m.FirstName, m.Name, m.Email)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <login>",
		Short: "Remove a member and their devices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := openDatastore(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer ds.Close()

			repo := repository.NewMemberRepository(ds.DB)
			defer repo.Close()
			m, err := repo.FindByLogin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := repo.DeleteByID(cmd.Context(), m.ID); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).Success("member %s deleted", m.Login)
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func newRoomCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Manage rooms ports can be wired to",
	}

	var room domain.Room
	add := &cobra.Command{
		Use:   "add <number>",
		Short: "Register a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid room number %q", args[0])
			}
			room.Number = number

			_, ds, err := openDatastore(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer ds.Close()

			saved, err := repository.NewRoomRepository(ds.DB).Save(cmd.Context(), room)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).Success("room %d created with id %d", saved.Number, saved.ID)
			return nil
		},
	}
	add.Flags().StringVar(&room.Description, "description", "", "Free-form description")
	add.Flags().StringVar(&room.Phone, "phone", "", "Phone extension")

	list := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, ds, err := openDatastore(cmd.Context(), load)
			if err != nil {
				return err
			}
			defer ds.Close()

			rooms, err := repository.NewRoomRepository(ds.DB).FindAll(cmd.Context())
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout())
			out.Info("%d room(s)", len(rooms))
			for _, r := range rooms {
				out.Row("%-6d %-8d %-8s %s", r.ID, r.Number, r.Phone, r.Description)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
