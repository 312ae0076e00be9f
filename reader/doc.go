// Package reader opens PDF files and resolves their objects.
//
// The whole file is read into memory. Cross-reference tables and streams
// are followed through every incremental update; when they are missing or
// damaged the table is rebuilt by scanning for object headers, so text can
// still be read from files other tools reject.
//
//	r, err := reader.Open("resume.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, _ := r.PageCount()
//	for i := 0; i < n; i++ {
//	    txt, _ := r.PageText(i)
//	    fmt.Println(txt)
//	}
//
// [Open] decrypts documents that need no user password, such as files
// protected only by an owner password, with pdfcpu. Documents that do need
// one are reported with [ErrEncrypted].
package reader
