package main

import (
	"context"
	"fmt"
	"strings"

	"hermes/internal/config"
	"hermes/internal/core/guard"
	"hermes/internal/core/notify"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/directory"
	"hermes/pkg/logger"
)

// DemoCmd creates demo data through the guarded operations, so conflicts
// with existing data show up as logged notifications instead of aborting.
type DemoCmd struct {
	Organizations []string `help:"Organization names." default:"Acme,Globex,Initech"`
	Employees     int      `help:"Employees per organization." default:"3"`
}

var demoPeople = [][2]string{
	{"Ada", "Lovelace"},
	{"Grace", "Hopper"},
	{"Alan", "Turing"},
	{"Edsger", "Dijkstra"},
	{"Barbara", "Liskov"},
}

func (d *DemoCmd) Run(ctx context.Context, log *logger.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Backend == config.BackendMemory {
		log.Warn("memory backend selected, seeded data is gone when the command exits")
	}

	backend, err := directory.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open directory: %w", err)
	}
	defer backend.Close()

	res := seed(ctx, backend.Organizations, backend.Employees, d.Organizations, d.Employees, log)
	log.Infow("seeding completed",
		"backend", backend.Name,
		"organizations", res.organizations,
		"employees", res.employees,
		"notifications", res.notifications,
	)
	return nil
}

type seedResult struct {
	organizations int
	employees     int
	notifications int
}

func seed(ctx context.Context, orgRepo organization.Repository, empRepo employee.Repository, names []string, perOrg int, log *logger.Logger) seedResult {
	var res seedResult
	logSink := notify.LogSink(log)
	sink := notify.SinkFunc(func(message string) {
		res.notifications++
		logSink.ShowNotification(message)
	})

	orgs := organization.NewOperations(orgRepo, sink, guard.WithLogger(log))
	emps := employee.NewOperations(empRepo, guard.WithLogger(log))
	emps.AttachSink(sink)

	for _, name := range names {
		org := organization.NewOrganization(strings.TrimSpace(name))
		if !orgs.Save(ctx, org) {
			continue
		}
		res.organizations++

		for i := range perOrg {
			person := demoPeople[i%len(demoPeople)]
			username := fmt.Sprintf("%s.%s", strings.ToLower(person[0]), strings.ToLower(org.Name))
			if i >= len(demoPeople) {
				username = fmt.Sprintf("%s%d", username, i/len(demoPeople)+1)
			}
			email := username + "@" + strings.ToLower(org.Name) + ".test"

			if emps.Save(ctx, org, employee.NewEmployee(username, email, person[0], person[1])) {
				res.employees++
			}
		}
		log.Infow("organization seeded", "organization", org.Name, "employees", emps.Count(ctx, org))
	}
	return res
}
