package main

import (
	"fmt"
	"io"
	"os"

	"spector/emu/log"
	"spector/hw"
	"spector/load"
	"spector/snap"
	"spector/tape"
)

func runLoad(cmd *Load) {
	if cmd.Config != "" {
		cfg, err := loadConfig(cmd.Config)
		checkf(err, "failed to read options file")
		cfg.merge(cmd)
	}

	data, err := os.ReadFile(cmd.TapePath)
	checkf(err, "failed to read tape")
	blocks, err := tape.Parse(cmd.TapePath, data)
	checkf(err, "failed to decode %s", cmd.TapePath)
	log.ModTape.Debugf("decoded %d blocks from %s", len(blocks), cmd.TapePath)

	mem := &hw.Memory{}
	cpu := hw.NewCPU(mem)
	checkf(applyRegSpecs(&cpu.Reg, cmd.Reg), "bad --reg option")

	var out io.Writer = os.Stdout
	if cmd.Quiet {
		out = nil
	}
	eng, err := load.NewEngine(cpu, blocks, load.Options{
		Accelerators:   cmd.Accelerator,
		NoAcceleration: cmd.NoAcceleration,
		Start:          cmd.Start,
		MaxTime:        cmd.MaxTime * 3_500_000,
	}, out)
	checkf(err, "cannot load %s", cmd.TapePath)
	checkf(eng.Run(), "failed to load %s", cmd.TapePath)

	s := &snap.Snapshot{Reg: cpu.Reg, Border: eng.Border()}
	copy(s.Mem[:], mem.Data[:])
	checkf(applyStateSpecs(s, cmd.State), "bad --state option")

	img, err := snap.Write(cmd.OutPath, s)
	checkf(err, "cannot encode %s", cmd.OutPath)
	log.ModSnap.WithField("file", cmd.OutPath).Debugf("snapshot image: %d bytes", len(img))
	checkf(os.WriteFile(cmd.OutPath, img, 0644), "cannot write %s", cmd.OutPath)
	fmt.Printf("Writing %s\n", cmd.OutPath)
}
