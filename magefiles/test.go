//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test with the race detector.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests of the packages that do not need a GPU or a window.
func (Test) Loader() error {
	if _, err := executeCmd("go", withArgs("test", "./core/...", "./math/...", "./assets/...", "./renderer/metadata/..."), withDir("engine"), withStream()); err != nil {
		return err
	}
	return nil
}
