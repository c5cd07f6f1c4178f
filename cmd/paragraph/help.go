// SPDX-License-Identifier: Unlicense OR MIT

package main

const mainUsage = `The paragraph command lays out a styled paragraph and reports its lines.

Usage:

	paragraph [-in file] [-width px] [-scale factor] [-pdf file] [-v]

The paragraph is read from the -in file, or from standard input if -in is
- or missing. It is written in the markup accepted by the
gioui.org/paragraph/text/markup package:

	paragraph align=justify maxlines=2 ellipsis="…" {
		style size=30 family="Go" color=#202020 {
			"World domination "
			style weight=bold decoration=underline { "is" }
		}
		placeholder width=32 height=32 align=middle
	}

The -width flag sets the layout width in pixels. The value inf lays the
paragraph out without a width constraint.

For every line, paragraph prints its index, its text range, its width and
the position of its baseline.

The -pdf flag paints the paragraph into a PDF file. The name - writes the
PDF to standard output, which must not be a terminal; the line report is
then written to standard error.

The -scale flag sets the number of pixels per dp and sp, for lengths written
with those units in the markup.

The -v flag enables debug logging.
`
