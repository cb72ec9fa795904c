package data

import (
	_ "embed"
)

// SeedMembers is the initial account list loaded by cmd/seed
//
//go:embed seed/members.json
var SeedMembers []byte

// SeedPrograms is the initial program catalog loaded by cmd/seed
//
//go:embed seed/programs.json
var SeedPrograms []byte
