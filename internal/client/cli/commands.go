package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/scenevault/internal/client/client"
	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/dmitrijs2005/scenevault/internal/cryptox"
	"github.com/dmitrijs2005/scenevault/internal/filex"
)

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// Save encrypts a local file and uploads it as args[0].
func (a *App) Save(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("save <sceneId> <file> [name]")
	}
	return a.upload(ctx, args[0], args[1], strings.Join(args[2:], " "))
}

// New uploads a local file under a freshly generated scene id.
func (a *App) New(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError("new <file> [name]")
	}
	sceneID, err := common.MakeRandHexString(6)
	if err != nil {
		return fmt.Errorf("generate scene id: %w", err)
	}
	return a.upload(ctx, sceneID, args[0], strings.Join(args[1:], " "))
}

func (a *App) upload(ctx context.Context, sceneID, path, name string) error {
	plaintext, err := filex.ReadLimited(path, maxSceneFile)
	if err != nil {
		return err
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	pass, err := a.passphrase()
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	defer common.WipeByteArray(pass)

	blob, keyID, err := cryptox.SealScene(pass, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.SaveScene(ctx, sceneID, name, blob, keyID); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}

	fmt.Fprintf(a.out, "Scene %s saved as %q\n", sceneID, name)
	return nil
}

// Get downloads args[0], decrypts it and writes the plaintext to args[1].
func (a *App) Get(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("get <sceneId> <file>")
	}
	sceneID, path := args[0], args[1]

	reqCtx, cancel := a.requestContext(ctx)
	blob, err := a.client.GetScene(reqCtx, sceneID)
	cancel()
	if err != nil {
		return fmt.Errorf("get scene: %w", err)
	}

	pass, err := a.passphrase()
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	defer common.WipeByteArray(pass)

	plaintext, err := cryptox.OpenScene(pass, blob)
	if errors.Is(err, cryptox.ErrDecryptFailed) {
		return errors.New("wrong passphrase or corrupted scene")
	}
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}

	if err := filex.WriteAtomic(path, plaintext, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Scene %s written to %s\n", sceneID, path)
	return nil
}

// List prints the owner's scenes, most recently modified first.
func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	scenes, err := a.client.ListScenes(ctx)
	switch {
	case err == nil:
		if a.cache != nil {
			if cerr := a.cache.ReplaceListing(ctx, a.ownerID, scenes); cerr != nil {
				fmt.Fprintln(a.out, "Warning: could not update local cache:", cerr)
			}
		}
	case errors.Is(err, client.ErrUnavailable) && a.cache != nil:
		cached, cerr := a.cache.Listing(context.WithoutCancel(ctx), a.ownerID)
		if cerr != nil {
			return fmt.Errorf("list scenes: %w", err)
		}
		fmt.Fprintln(a.out, "Server unavailable, showing cached listing")
		scenes = cached
	default:
		return fmt.Errorf("list scenes: %w", err)
	}
	if len(scenes) == 0 {
		fmt.Fprintln(a.out, "No scenes")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMODIFIED\tCREATED")
	for _, s := range scenes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name,
			s.Modified().Local().Format(time.DateTime), s.Created().Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// Delete removes args[0].
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError("delete <sceneId>")
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.DeleteScene(ctx, args[0]); err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	fmt.Fprintf(a.out, "Scene %s deleted\n", args[0])
	return nil
}
