/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"fmt"
	"strings"

	"github.com/massung/chip8vm/chip8"
)

// StatusLine summarizes the machine state on a single line.
func StatusLine(title string, status chip8.Status) string {
	var s strings.Builder

	fmt.Fprintf(&s, "%s  PC=#%04X I=#%04X SP=%d DT=#%02X ST=#%02X", title, status.PC, status.I, status.SP, status.Delay, status.Sound)

	if inst := status.Instruction(); inst != "" {
		fmt.Fprintf(&s, "  %04X - %s", status.Address, inst)
	}

	return s.String()
}

// Registers lists the registers shown in the register panel, in order, as
// name and value pairs. Values are 2 or 4 hex digits.
func Registers(status chip8.Status) [][2]string {
	regs := make([][2]string, 0, 21)

	for i, v := range status.V {
		regs = append(regs, [2]string{fmt.Sprintf("V%X", i), fmt.Sprintf("%02X", v)})
	}

	regs = append(regs,
		[2]string{"PC", fmt.Sprintf("%04X", status.PC)},
		[2]string{"I", fmt.Sprintf("%04X", status.I)},
		[2]string{"SP", fmt.Sprintf("%02X", status.SP)},
		[2]string{"DT", fmt.Sprintf("%02X", status.Delay)},
		[2]string{"ST", fmt.Sprintf("%02X", status.Sound)},
	)

	return regs
}
