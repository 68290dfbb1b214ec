// Command smmutrace replays a CSV device-translation trace against the
// smmu package's functional model and reports each access's outcome.
package main

func main() {
	Execute()
}
