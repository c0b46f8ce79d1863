package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/twobody"
	"github.com/phil-mansfield/twobody/io"
	"github.com/phil-mansfield/twobody/pdg"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var decayStr, exampleConfig string
	vars := map[string]*string{
		"Decay":         &decayStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&decayStr, "Decay", "",
		"Configuration file for [Decay] mode.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. The only accepted argument is 'Decay'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Decay":
		con, err := io.ReadDecayConfig(decayStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		decayMain(con)

	case "ExampleConfig":
		switch exampleConfig {
		case "Decay":
			fmt.Println(io.ExampleDecayFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Decay'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but twobody "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func decayMain(con *io.DecayConfig) {
	fg := setupIO(con)
	defer fg.Close()

	var table *pdg.Table
	if con.ValidParticleTable() {
		var err error
		table, err = pdg.ReadTable(con.ParticleTable)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	man, err := twobody.NewManager(con, table, con.ValidLogFile())
	if err != nil {
		log.Fatal(err.Error())
	}

	book, sum, err := man.Run()
	if err != nil {
		log.Fatal(err.Error())
	}

	if con.Normalize {
		book.Normalize()
	}
	if err := book.Plot(con.PlotFormat); err != nil {
		log.Fatal(err.Error())
	}
	plt.Execute()

	fmt.Printf(
		"%d events: %d good, %d vetoed, %d bad. Plots written to %s.\n",
		sum.Events, sum.Good, sum.Vetoed, sum.Bad, con.Output,
	)
}

// setupIO redirects logging to LogFile and starts a CPU profile in
// ProfileFile, if either is set.
func setupIO(con *io.DecayConfig) *FileGroup {
	fg := &FileGroup{}

	if con.ValidLogFile() {
		var err error
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		var err error
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		if err := pprof.StartCPUProfile(fg.prof); err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}
