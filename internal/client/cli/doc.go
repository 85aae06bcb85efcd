// Package cli provides scenectl, the interactive scenevault command-line client.
//
// The client encrypts scene files locally before upload: a passphrase is read
// from the terminal, an AES-256 key is derived with argon2id and the file is
// sealed with AES-GCM. The server only ever sees ciphertext and a key id.
//
// Commands:
//   - save <sceneId> <file> [name]  encrypt and upload a file
//   - new <file> [name]             same as save with a random scene id
//   - get <sceneId> <file>          download, decrypt and write a scene
//   - list                          list scenes, most recently modified first
//   - delete <sceneId>              remove a scene
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
