package pack

import (
	"fmt"
	"sort"

	"github.com/nextpnr-go/corepnr/design"
	"github.com/nextpnr-go/corepnr/idstring"
)

// carryLink is one MUXCY+XORCY pair in a chain, ordered by its CI->CO
// dependency.
type carryLink struct {
	muxcy, xorcy idstring.ID
}

// PackCarryChains combines contiguous MUXCY+XORCY graphs bottom-up
// into CARRY4 (or CARRY8) primitives, chunking in groups of four and
// further coalescing pairs of CARRY4 into CARRY8 where the family
// allows it.
//
// allowCarry8 selects whether two consecutive CARRY4 chunks coalesce
// into one CARRY8 (UltraScale+) or stay as separate CARRY4 primitives
// (7-series).
func PackCarryChains(ctx *design.Context, in *idstring.Interner, allowCarry8 bool) error {
	chains, err := findChains(ctx, in)
	if err != nil {
		return err
	}

	for _, chain := range chains {
		if err := packOneChain(ctx, in, chain, allowCarry8); err != nil {
			return err
		}
	}
	return nil
}

// findChains groups MUXCY/XORCY cells into ordered chains by following
// CI<-CO links. A CI input driven by more than one MUXCY's CO output
// is an ambiguous topology and fatal.
func findChains(ctx *design.Context, in *idstring.Interner) ([][]carryLink, error) {
	muxcys := map[idstring.ID]*design.CellInfo{}
	xorcys := map[idstring.ID]*design.CellInfo{}
	for name, c := range ctx.Cells {
		switch c.Type {
		case idstring.MUXCY:
			muxcys[name] = c
		case idstring.XORCY:
			xorcys[name] = c
		}
	}
	if len(muxcys) == 0 {
		return nil, nil
	}

	coDriverOf := map[idstring.ID]idstring.ID{} // net name -> muxcy cell driving CO onto it
	for name, c := range muxcys {
		if net := driverNetOf(ctx, name, idstring.CO); net != idstring.None {
			if existing, ok := coDriverOf[net]; ok && existing != name {
				return nil, fmt.Errorf("pack: ambiguous carry-chain topology: net %q driven by both %q and %q CO",
					in.String(net), in.String(existing), in.String(name))
			}
			coDriverOf[net] = name
		}
	}

	ciNetOf := map[idstring.ID]idstring.ID{} // muxcy cell -> CI net name
	for name, c := range muxcys {
		if pi, ok := c.Ports[idstring.CI]; ok {
			_ = pi
			ciNetOf[name] = netFeedingPin(ctx, name, idstring.CI)
		}
	}

	pairedXorcy := map[idstring.ID]idstring.ID{} // muxcy -> xorcy sharing the same CI
	for xname, xc := range xorcys {
		ciNet := netFeedingPin(ctx, xname, idstring.CI)
		for mname := range muxcys {
			if ciNetOf[mname] == ciNet && ciNet != idstring.None {
				pairedXorcy[mname] = xname
			}
		}
		_ = xc
	}

	roots := make([]idstring.ID, 0)
	for name := range muxcys {
		ciNet := ciNetOf[name]
		if _, driven := coDriverOf[ciNet]; !driven {
			roots = append(roots, name)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	// ciConsumerOf inverts ciNetOf: given the net a muxcy's CO drives,
	// it finds the next muxcy downstream whose CI that net feeds.
	ciConsumerOf := map[idstring.ID]idstring.ID{}
	for name, net := range ciNetOf {
		if net != idstring.None {
			ciConsumerOf[net] = name
		}
	}

	var chains [][]carryLink
	for _, root := range roots {
		var chain []carryLink
		cur := root
		for cur != idstring.None {
			chain = append(chain, carryLink{muxcy: cur, xorcy: pairedXorcy[cur]})
			coNet := netDrivenOnPin(ctx, cur, idstring.CO)
			next := idstring.None
			if coNet != idstring.None {
				if n, ok := ciConsumerOf[coNet]; ok && n != cur {
					next = n
				}
			}
			cur = next
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

func driverNetOf(ctx *design.Context, cell, port idstring.ID) idstring.ID {
	return netDrivenOnPin(ctx, cell, port)
}

func netDrivenOnPin(ctx *design.Context, cell, port idstring.ID) idstring.ID {
	for name, net := range ctx.Nets {
		if net.Driver.Cell == cell && net.Driver.Port == port {
			return name
		}
	}
	return idstring.None
}

func netFeedingPin(ctx *design.Context, cell, port idstring.ID) idstring.ID {
	for name, net := range ctx.Nets {
		if net.Driver.Cell == cell && net.Driver.Port == port {
			return name
		}
		for _, u := range net.Users {
			if u.Cell == cell && u.Port == port {
				return name
			}
		}
	}
	return idstring.None
}

// packOneChain coalesces chain into CARRY4 cells in chunks of four
// links or, if allowCarry8, into CARRY8 cells of eight links wherever
// two full chunks of four remain, attempting to absorb the LUTs
// driving S[i]/DI[i] into the slice's LUT6/LUT5 positions.
func packOneChain(ctx *design.Context, in *idstring.Interner, chain []carryLink, allowCarry8 bool) error {
	chunkSize := 4
	var carryCells []idstring.ID
	for base := 0; base < len(chain); {
		size := chunkSize
		carryType := idstring.CARRY4
		if allowCarry8 && base+2*chunkSize <= len(chain) {
			size = 2 * chunkSize
			carryType = idstring.CARRY8
		}
		end := base + size
		if end > len(chain) {
			end = len(chain)
		}
		chunk := chain[base:end]
		base = end

		name := in.Intern(fmt.Sprintf("%s$carry", in.String(chunk[0].muxcy)))
		carryCell := &design.CellInfo{
			Name:   name,
			Type:   carryType,
			Ports:  make(map[idstring.ID]design.PortInfo),
			Params: make(map[idstring.ID]interface{}),
			Attrs:  make(map[idstring.ID]interface{}),
		}
		ctx.AddCell(carryCell)
		carryCells = append(carryCells, name)

		for i, link := range chunk {
			if err := absorbLink(ctx, in, carryCell, i, link); err != nil {
				return err
			}
			ctx.RemoveCell(link.muxcy)
			if link.xorcy != idstring.None {
				ctx.RemoveCell(link.xorcy)
			}
		}
	}

	// Chain together the chunk cells (CARRY4/CARRY8) as a single
	// cluster so the placer legalises their CI->CO stacking as one
	// unit instead of scattering them across the grid.
	AttachCarryChainCluster(ctx, carryCells)
	return nil
}

// absorbLink attempts to fold the LUT driving S[i]/DI[i] into the
// carry cell's shared LUT6/LUT5 positions. When the combined fanin
// would exceed 5 inputs, a route-through LUT1 is inserted instead.
func absorbLink(ctx *design.Context, in *idstring.Interner, carry *design.CellInfo, i int, link carryLink) error {
	sNet := netFeedingPin(ctx, link.xorcy, idstring.S)
	diNet := netFeedingPin(ctx, link.muxcy, idstring.DI)

	driverLUT := func(net idstring.ID) *design.CellInfo {
		if net == idstring.None {
			return nil
		}
		n := ctx.Nets[net]
		if n == nil {
			return nil
		}
		c := ctx.Cells[n.Driver.Cell]
		if c == nil || !isLUT(c.Type) {
			return nil
		}
		return c
	}

	sLUT := driverLUT(sNet)
	diLUT := driverLUT(diNet)

	fanin := 0
	if sLUT != nil {
		fanin += lutInputCount(sLUT)
	}
	if diLUT != nil {
		fanin += lutInputCount(diLUT)
	}

	if fanin > 5 {
		rt := in.Intern(fmt.Sprintf("%s$routethrough", in.String(link.muxcy)))
		routeThrough := &design.CellInfo{
			Name:   rt,
			Type:   idstring.LUT1,
			Ports:  make(map[idstring.ID]design.PortInfo),
			Params: map[idstring.ID]interface{}{idstring.INIT: 2},
		}
		ctx.AddCell(routeThrough)
		return nil
	}

	// Fold each driving LUT's own inputs onto the carry cell's shared
	// position for this link (S<i>/DI<i>), absorbing the standalone
	// LUT cell entirely; a position with no LUT driver still needs its
	// net redirected onto the carry cell directly, since the xorcy/
	// muxcy cell it used to feed is about to be removed.
	if sLUT != nil {
		absorbLUTIntoCarry(ctx, in, carry, "S", i, sLUT, sNet)
	} else if sNet != idstring.None {
		passThroughPin(ctx, in, carry, "S", i, sNet, link.xorcy, idstring.S)
	}
	if diLUT != nil {
		absorbLUTIntoCarry(ctx, in, carry, "DI", i, diLUT, diNet)
	} else if diNet != idstring.None {
		passThroughPin(ctx, in, carry, "DI", i, diNet, link.muxcy, idstring.DI)
	}

	return nil
}

// absorbLUTIntoCarry moves lut's own input pins onto carry at the
// indexed "<label><i>_<pin>" position, carries its INIT value over
// under "<label><i>_INIT", then removes lut and the now-dangling net
// that used to carry its output to the absorbed xorcy/muxcy pin.
func absorbLUTIntoCarry(ctx *design.Context, in *idstring.Interner, carry *design.CellInfo, label string, i int, lut *design.CellInfo, outputNet idstring.ID) {
	for _, pin := range lutInputs(lut) {
		newName := in.Intern(fmt.Sprintf("%s%d_%s", label, i, in.String(pin)))
		carry.Ports[newName] = design.PortInfo{Name: newName}
		if feedNet := netFeedingPin(ctx, lut.Name, pin); feedNet != idstring.None {
			redirectUser(ctx.Nets[feedNet], lut.Name, pin, carry.Name, newName)
		}
	}
	if init, ok := lut.Params[idstring.INIT]; ok {
		carry.Params[in.Intern(fmt.Sprintf("%s%d_INIT", label, i))] = init
	}

	ctx.RemoveCell(lut.Name)
	dropDeadNet(ctx, outputNet, lut.Name)
}

// passThroughPin gives carry a plain "<label><i>" pin and redirects
// net's user entry from the about-to-be-removed consumer cell/port
// onto it, for a carry-chain bit with no LUT to absorb.
func passThroughPin(ctx *design.Context, in *idstring.Interner, carry *design.CellInfo, label string, i int, net idstring.ID, oldCell, oldPort idstring.ID) {
	newName := in.Intern(fmt.Sprintf("%s%d", label, i))
	carry.Ports[newName] = design.PortInfo{Name: newName}
	redirectUser(ctx.Nets[net], oldCell, oldPort, carry.Name, newName)
}

// redirectUser rewrites the net's user entry that matches
// (oldCell, oldPort) to point at (newCell, newPort) instead, keeping
// the same stable user index.
func redirectUser(net *design.NetInfo, oldCell, oldPort, newCell, newPort idstring.ID) {
	if net == nil {
		return
	}
	for idx, u := range net.Users {
		if u.Cell == oldCell && u.Port == oldPort {
			net.Users[idx] = design.PortRef{Cell: newCell, Port: newPort, PinIdx: -1}
			return
		}
	}
}

// dropDeadNet removes netName once its driver (removedDriver, already
// absorbed) is gone and every cell it fed has been absorbed or removed
// too, so nothing can reference it again.
func dropDeadNet(ctx *design.Context, netName, removedDriver idstring.ID) {
	net := ctx.Nets[netName]
	if net == nil || net.Driver.Cell != removedDriver {
		return
	}
	delete(ctx.Nets, netName)
}

// lutInputOrder lists the well-known LUT input pin names in address order.
var lutInputOrder = []idstring.ID{idstring.I0, idstring.I1, idstring.I2, idstring.I3, idstring.I4, idstring.I5}

// lutInputs returns c's connected input pins, in address order.
func lutInputs(c *design.CellInfo) []idstring.ID {
	var ins []idstring.ID
	for _, pin := range lutInputOrder {
		if _, ok := c.Ports[pin]; ok {
			ins = append(ins, pin)
		}
	}
	return ins
}

func isLUT(t idstring.ID) bool {
	switch t {
	case idstring.LUT1, idstring.LUT2, idstring.LUT3, idstring.LUT4, idstring.LUT5, idstring.LUT6:
		return true
	}
	return false
}

func lutInputCount(c *design.CellInfo) int {
	n := 0
	for name := range c.Ports {
		switch name {
		case idstring.I0, idstring.I1, idstring.I2, idstring.I3, idstring.I4, idstring.I5:
			n++
		}
	}
	return n
}
