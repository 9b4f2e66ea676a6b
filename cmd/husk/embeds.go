package main

import (
	_ "embed"
)

// starterDockerfile is the template `husk init` writes into a project that
// doesn't have a Dockerfile yet.
//
//go:embed starter/Dockerfile
var starterDockerfile []byte
