package colormap

// Control points of the built-in colormaps, dark to light, as 0xRRGGBB.
// They approximate the matplotlib/seaborn maps of the same name at a coarse,
// even spacing.
var catalog = map[string][]uint32{
	"mako": {
		0x0b0405, 0x1a0f1f, 0x29173a, 0x341e55, 0x3a2870, 0x3d3685,
		0x3b4690, 0x375796, 0x346699, 0x31769c, 0x2e869f, 0x2e96a1,
		0x34a6a2, 0x45b5a1, 0x66c3a4, 0x8fcfb0, 0xb5dcc5, 0xdef5e5,
	},
	"rocket": {
		0x03051a, 0x1d1131, 0x36184a, 0x4f1c5c, 0x6a1f62, 0x851e63,
		0xa11a5b, 0xbb1e4e, 0xd22f40, 0xe24a37, 0xec6739, 0xf28348,
		0xf59e62, 0xf6b884, 0xf7cfa8, 0xfae5cd, 0xfaebdd,
	},
	"magma": {
		0x000004, 0x0c0926, 0x221150, 0x3b0f70, 0x51127c, 0x66197f,
		0x7b2382, 0x912b81, 0xa8327d, 0xbe3775, 0xd3436e, 0xe45563,
		0xf1705c, 0xf8905f, 0xfcaf70, 0xfdcf8c, 0xfcecaa, 0xfcfdbf,
	},
	"inferno": {
		0x000004, 0x0d0829, 0x280b53, 0x470b6a, 0x65156e, 0x82206c,
		0x9f2a63, 0xbb3755, 0xd44842, 0xe8602d, 0xf57d15, 0xfc9f07,
		0xfac228, 0xf3e35a, 0xfcffa4,
	},
	"plasma": {
		0x0d0887, 0x3a049a, 0x5c01a6, 0x7e03a8, 0x9c179e, 0xb52f8c,
		0xcc4778, 0xde5f65, 0xed7953, 0xf89540, 0xfdb42f, 0xfbd524,
		0xf0f921,
	},
	"viridis": {
		0x440154, 0x482475, 0x414487, 0x355f8d, 0x2a788e, 0x21918c,
		0x22a884, 0x44bf70, 0x7ad151, 0xbddf26, 0xfde725,
	},
	"gray": {
		0x000000, 0xffffff,
	},
}
