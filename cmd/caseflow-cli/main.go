// Command caseflow-cli fills a case step interactively from the terminal.
// Case state lives in a local state directory so a step can be drafted,
// inspected as plain JSON, and advanced without a remote Case-Data API.
//
//	caseflow-cli -case demo -step medallion.owners
//	caseflow-cli -schemas ./schemas -advance
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-caseflow/pkg/caseflow"
	"github.com/goliatone/go-caseflow/pkg/docdeps"
	"github.com/goliatone/go-caseflow/pkg/format"
	"github.com/goliatone/go-caseflow/pkg/schema"
	"github.com/goliatone/go-caseflow/pkg/validate"
)

func main() {
	caseID := flag.String("case", "local", "case id")
	stateDir := flag.String("state", ".caseflow", "state directory for case data and documents")
	schemaDir := flag.String("schemas", "", "directory of step schema documents (bundled schemas if empty)")
	advance := flag.Bool("advance", false, "advance the case after a successful submit")
	flag.Parse()

	if err := run(context.Background(), *caseID, *stateDir, *schemaDir, *advance); err != nil {
		if errors.Is(err, errAborted) {
			fmt.Println("aborted")
			os.Exit(1)
		}
		log.Fatalf("caseflow-cli: %v", err)
	}
}

func run(ctx context.Context, caseID, stateDir, schemaDir string, advance bool) error {
	registry, err := loadRegistry(schemaDir)
	if err != nil {
		return err
	}

	store, err := newFileStore(stateDir, registry)
	if err != nil {
		return err
	}

	ctrl, err := caseflow.New(store, store, caseflow.WithSchemaRegistry(registry))
	if err != nil {
		return err
	}
	if err := ctrl.LoadCase(ctx, caseID, true); err != nil {
		return err
	}
	if ctrl.State() == caseflow.StateClosed {
		fmt.Printf("case %s is closed\n", ctrl.CaseID())
		return nil
	}

	step, err := registry.Step(ctrl.StepID())
	if err != nil {
		return err
	}
	title := step.Title
	if title == "" {
		title = step.ID
	}
	fmt.Printf("case %s, step %s\n\n", ctrl.CaseID(), title)

	filler := &stepFiller{
		ctrl:  ctrl,
		rules: validate.NewRegistry(format.NewBankConfig()),
	}
	resolver := docdeps.NewResolver()

	for {
		if err := filler.fill(step); err != nil {
			return err
		}

		missing, err := resolver.Missing(step, ctrl.Values(), ctrl.Documents())
		if err != nil {
			return err
		}
		codes := make([]string, 0, len(missing))
		for _, req := range missing {
			codes = append(codes, req.Code)
		}
		err = filler.collectDocuments(codes, func(code string, file *os.File) error {
			_, uploadErr := ctrl.UploadDocument(ctx, caseflow.OwnerStep, step.ID, code, file)
			return uploadErr
		})
		if err != nil {
			return err
		}

		errs, err := ctrl.Submit(ctx, advance)
		if err != nil {
			var race *caseflow.RaceGuardError
			if errors.As(err, &race) {
				fmt.Printf("case already advanced elsewhere; now on step %s\n", ctrl.StepID())
				return nil
			}
			return err
		}
		if errs.Empty() {
			break
		}

		fmt.Println("\nstep has validation errors:")
		for path, message := range errs.Fields {
			fmt.Printf("  %s: %s\n", path, message)
		}
		for _, message := range errs.Groups {
			fmt.Printf("  %s\n", message)
		}

		retry := true
		if err := ask(promptRetry(), &retry); err != nil {
			return err
		}
		if !retry {
			return fmt.Errorf("step %s left incomplete", step.ID)
		}
	}

	if ctrl.State() == caseflow.StateClosed {
		fmt.Printf("\ncase %s completed\n", ctrl.CaseID())
		return nil
	}
	if advance {
		fmt.Printf("\nadvanced to step %s\n", ctrl.StepID())
	} else {
		fmt.Printf("\nstep %s saved\n", step.ID)
	}
	return nil
}

func loadRegistry(schemaDir string) (*schema.Registry, error) {
	if schemaDir == "" {
		return schema.Default(), nil
	}
	registry, err := schema.LoadFS(os.DirFS(schemaDir))
	if err != nil {
		return nil, fmt.Errorf("load schemas from %s: %w", schemaDir, err)
	}
	return registry, nil
}
