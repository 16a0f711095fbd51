// SPDX-License-Identifier: EPL-2.0

// Package imuse is the digital track sequencer.
//
// An Engine owns a fixed arena of track slots. Each slot plays one sound
// opened from a bank.Bank: on every tick the engine steps volume fades and
// speech ducking, feeds the next chunk of PCM into the track's mixer queue
// and follows the sound's region table, taking jumps whose hook matches the
// one the game set and firing pending triggers on markers. Smooth
// transitions are made by cloning a track into one of the fade slots and
// fading the clone out while the original carries on elsewhere.
//
// Engine behaviour that differs between games (tick rate, fade curves,
// ducking depth, mix multipliers and a few jump quirks) is data in a
// Profile; ProfileDig, ProfileFT and ProfileCMI reproduce the three known
// engine generations.
//
// All Engine methods are safe for concurrent use. Tick holds the engine lock
// for a whole pass over the arena and calls into the mixer while holding it,
// so Mixer implementations must never call back into the engine.
package imuse
