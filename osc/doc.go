// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc encodes and decodes OpenSoundControl packets.
//
//This implementation is based on the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html).
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' (Blob)
//
//- Supports OSC bundles, including nested bundles and TimeTags.
//
//- A lazy BundleReader that yields the messages of a bundle one at a time.
//
//- Thin transport wrappers: a Client writing through a caller-owned
//net.PacketConn and a Server receive loop with address-pattern dispatching.
//
//Wire format
//
//Everything is big-endian. Strings are NUL terminated and zero filled to a
//multiple of 4 bytes; a string whose length is already a multiple of 4 still
//gets four NUL bytes. Blobs carry a 4-byte byte count and their content is
//zero filled to a multiple of 8 bytes. A bundle is the string "#bundle", an
//8-byte time tag and a sequence of size prefixed elements.
//
//Decoding
//
//By default the type tag string is read leniently: the leading ',' is
//optional and unrecognized tags are skipped with a warning. WithStrictTypeTags
//turns both into ErrUnsupportedTypeTag. Every read is bounds checked and a
//short buffer yields ErrBufferTruncated.
//
//Usage
//
//OSC client example:
//  conn, _ := net.ListenPacket("udp", ":0")
//  defer conn.Close()
//  dest, _ := osc.ResolveDestination("localhost", 8765)
//  client := osc.NewClient(conn, dest)
//  client.SendMessage("/osc/address", int32(111), "hello")
//
//OSC server example:
//  d := osc.NewDispatcher(zerolog.Nop())
//  d.AddMethodFunc("/message/address", func(msg *osc.Message) {
//      fmt.Println(msg)
//  })
//
//  server := &osc.Server{Handler: d}
//  server.ListenAndServe(ctx, "127.0.0.1:8765")
package osc
