//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds the bilhar binary into bin/.
func (Build) Binary() error {
	if err := modDownload(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/bilhar", "."), withStream()); err != nil {
		return err
	}
	return nil
}
